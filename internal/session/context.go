// Package session は認証状態のステートマシンを提供する。
// 1リクエストにつき1インスタンスを生成し、トークン解決は1回のみ実行する。
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
)

// State は認証コンテキストの状態を表す。
type State int

const (
	// StateResolving は初期状態。トークンの検索・解決が未完了であることを示す。
	StateResolving State = iota
	// StateAuthenticated はトークン解決またはOTP検証に成功した状態。
	StateAuthenticated
	// StateUnauthenticated はセッションが存在しない状態。
	StateUnauthenticated
)

// String はStateの文字列表現を返す。
func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Resolver はトークンをユーザー識別情報に解決するインターフェース。
// api.Clientの部分集合として定義する。
type Resolver interface {
	FetchMe(ctx context.Context, token string) (*model.Session, error)
}

// TokenStore はトークンの永続化に必要なインターフェース。
// token.Storeの部分集合として定義する。
type TokenStore interface {
	Get(r *http.Request) string
	Set(w http.ResponseWriter, tok string)
	Clear(w http.ResponseWriter)
}

// Context は認証状態を保持するステートマシン。
//
// 遷移:
//
//	Resolving --(トークンなし)--> Unauthenticated
//	Resolving --(解決成功)--> Authenticated
//	Resolving --(解決失敗)--> Unauthenticated（トークンを削除）
//	Unauthenticated/Authenticated --(Login)--> Authenticated
//	Authenticated --(Logout)--> Unauthenticated（トークンを削除）
//
// Login/Logoutは解決完了後にのみ呼び出されることを前提とする。
// Sessionの所有者はこのContextのみであり、他の層は読み取り専用で参照する。
type Context struct {
	state    State
	user     *model.Session
	token    string
	store    TokenStore
	resolver Resolver
}

// NewContext はResolving状態のContextを生成する。
func NewContext(store TokenStore, resolver Resolver) *Context {
	return &Context{
		state:    StateResolving,
		store:    store,
		resolver: resolver,
	}
}

// Resolve は保存済みトークンの解決を実行する。
// Resolving状態でのみ効果を持ち、2回目以降の呼び出しはno-op。
// トークンが存在しない場合はバックエンドを呼ばずにUnauthenticatedへ遷移する。
// 解決失敗時は失敗の種類を区別せずトークンを削除しUnauthenticatedへ遷移する
// （ユーザーにはエラーを表示しない。フェイルクローズ）。
func (c *Context) Resolve(ctx context.Context, r *http.Request, w http.ResponseWriter) {
	if c.state != StateResolving {
		return
	}

	tok := c.store.Get(r)
	if tok == "" {
		c.state = StateUnauthenticated
		return
	}

	user, err := c.resolver.FetchMe(ctx, tok)
	if err != nil {
		slog.Debug("トークン解決に失敗したためセッションなしとして扱います",
			slog.String("error", err.Error()),
		)
		c.store.Clear(w)
		c.state = StateUnauthenticated
		return
	}

	c.user = user
	c.token = tok
	c.state = StateAuthenticated
}

// Login はOTP検証成功後のログイン遷移を実行する。
// トークンの永続化を状態遷移より先に行い、
// 後続のナビゲーション時点でトークンが読み取り可能であることを保証する。
// 既存のセッションがある場合は上書きする。
func (c *Context) Login(w http.ResponseWriter, user *model.Session, tok string) {
	c.store.Set(w, tok)
	c.user = user
	c.token = tok
	c.state = StateAuthenticated
}

// Logout はログアウト遷移を実行する。
// リダイレクトより前にトークンを削除する。
func (c *Context) Logout(w http.ResponseWriter) {
	c.store.Clear(w)
	c.user = nil
	c.token = ""
	c.state = StateUnauthenticated
}

// State は現在の状態を返す。
func (c *Context) State() State {
	return c.state
}

// User は現在のセッションを返す。Authenticated以外ではnil。
func (c *Context) User() *model.Session {
	return c.user
}

// Token は現在のベアラートークンを返す。Authenticated以外では空文字列。
func (c *Context) Token() string {
	return c.token
}
