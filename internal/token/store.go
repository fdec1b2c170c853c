// Package token はベアラートークンのCookieストアを提供する。
// クライアント側に永続化する状態はこのトークン1つのみ。
package token

import "net/http"

// CookieName はトークンを保持するCookieの固定名。
const CookieName = "syncdesk_access_token"

// Store はベアラートークンの永続化を担当する。
// Get/Set/Clearは同期的で、ストレージが利用できない場合
// （リクエスト/レスポンスがnil）でも失敗せず空値/no-opで返す。
type Store struct {
	CookieDomain string
	CookieSecure bool
	MaxAge       int // Cookieの有効期間（秒）
}

// NewStore はStoreを生成する。
func NewStore(domain string, secure bool, maxAge int) *Store {
	return &Store{
		CookieDomain: domain,
		CookieSecure: secure,
		MaxAge:       maxAge,
	}
}

// Get はリクエストからトークンを読み取る。
// Cookieが存在しない場合は空文字列を返す。
func (s *Store) Get(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set はトークンをHTTP Only Cookieとしてレスポンスに書き込む。
// ログイン成功時に呼び出す。後続のナビゲーションより前に呼び出すこと。
func (s *Store) Set(w http.ResponseWriter, tok string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		Domain:   s.CookieDomain,
		MaxAge:   s.MaxAge,
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear はトークンCookieを削除する。
// ログアウト時およびトークン解決失敗時に呼び出す。
func (s *Store) Clear(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
