package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
)

const (
	// csrfCookieName はCSRFトークンを保持するCookieの名前。
	csrfCookieName = "syncdesk_csrf_token"

	// csrfFieldName はフォームからCSRFトークンを読み取る際のフィールド名。
	// JavaScriptを前提としないため、ヘッダーではなく隠しフィールドで送信する。
	csrfFieldName = "csrf_token"
)

// csrfTokenContextKey はリクエストコンテキストにCSRFトークンを格納するためのキー。
var csrfTokenContextKey = contextKey("csrf_token")

// CSRFConfig はCSRFミドルウェアの設定。
type CSRFConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewCSRFMiddleware はCSRFトークンの生成・検証ミドルウェアを返す。
// 安全なメソッド（GET, HEAD, OPTIONS）はトークン検証をスキップし、
// トークンCookieが未設定なら設定する。
// 状態変更メソッド（POST等）はCookieのトークンとフォームの隠しフィールドの
// 一致を必須とする（double submit方式）。
// 検証に使用したトークンはリクエストコンテキストに注入し、
// ハンドラーがフォーム描画時に埋め込めるようにする。
func NewCSRFMiddleware(config CSRFConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieToken(r)

			if isSafeMethod(r.Method) {
				if token == "" {
					var err error
					token, err = generateCSRFToken()
					if err != nil {
						slog.Error("CSRFトークンの生成に失敗しました", slog.String("error", err.Error()))
						http.Error(w, "internal server error", http.StatusInternalServerError)
						return
					}
					setCSRFCookie(w, token, config)
				}
				ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// 状態変更メソッド: Cookieとフォームフィールドの一致を検証
			if token == "" {
				slog.Warn("CSRF検証失敗: Cookieトークンがありません",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			formToken := r.PostFormValue(csrfFieldName)
			if formToken == "" {
				slog.Warn("CSRF検証失敗: フォームトークンがありません",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(formToken)) != 1 {
				slog.Warn("CSRF検証失敗: トークンが一致しません",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFTokenFromContext はリクエストコンテキストからCSRFトークンを取得する。
// フォームの隠しフィールドへの埋め込みに使用する。未設定の場合は空文字列。
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenContextKey).(string)
	return token
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// cookieToken はリクエストのCookieからCSRFトークンを読み取る。
func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setCSRFCookie はCSRFトークンCookieを設定する。
func setCSRFCookie(w http.ResponseWriter, token string, config CSRFConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   86400, // 24時間
		HttpOnly: true,  // フォーム埋め込みはサーバー側で行うため読み取り不要
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateCSRFToken は暗号的に安全なCSRFトークンを生成する。
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
