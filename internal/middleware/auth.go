// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/session"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// authContextKey はリクエストコンテキストに認証コンテキストを格納するためのキー。
var authContextKey = contextKey("auth_context")

// NewAuthMiddleware はリクエストごとに認証コンテキストを生成し、
// トークン解決を実行した上でリクエストコンテキストに注入するミドルウェアを返す。
// 解決はここで1回のみ実行され、後続のガード・ハンドラーは解決済みの状態を参照する。
func NewAuthMiddleware(store session.TokenStore, resolver session.Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := session.NewContext(store, resolver)
			ac.Resolve(r.Context(), r, w)

			ctx := context.WithValue(r.Context(), authContextKey, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthFromContext はリクエストコンテキストから認証コンテキストを取得する。
// NewAuthMiddlewareを通過していないリクエストでの呼び出しはプログラミングエラーであり、
// panicする（ガード外からのセッション参照を許可しない）。
func AuthFromContext(ctx context.Context) *session.Context {
	ac, ok := ctx.Value(authContextKey).(*session.Context)
	if !ok {
		panic("認証コンテキストが初期化されていません。NewAuthMiddlewareの内側でのみ使用できます")
	}
	return ac
}

// ContextWithAuth はコンテキストに認証コンテキストを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAuth(ctx context.Context, ac *session.Context) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}
