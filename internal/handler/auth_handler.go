package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/syncdesk/internal/middleware"
	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// AuthAPIInterface は認証ハンドラーが必要とするAPIクライアントのインターフェース。
type AuthAPIInterface interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (string, error)
	FetchMe(ctx context.Context, token string) (*model.Session, error)
}

// LoginMetrics はログイン結果のメトリクス記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type LoginMetrics interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// LoginLimiter はログイン試行のレート制限インターフェース。
type LoginLimiter interface {
	Allow(phone string) bool
}

// AuthHandler はOTPログイン関連のHTTPハンドラー。
type AuthHandler struct {
	api      AuthAPIInterface
	renderer *view.Renderer
	limiter  LoginLimiter
	metrics  LoginMetrics
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(api AuthAPIInterface, renderer *view.Renderer, limiter LoginLimiter, metrics LoginMetrics) *AuthHandler {
	return &AuthHandler{
		api:      api,
		renderer: renderer,
		limiter:  limiter,
		metrics:  metrics,
	}
}

// LoginPage は電話番号入力フォームを表示する。
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "", "")
}

// RequestOTP は電話番号を検証し、認証コードの送信を依頼する。
// POST /login
// 形式が不正な場合はバックエンドへのリクエストを発行しない。
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	phone := r.PostFormValue("phone")

	normalized, err := normalizePhone(phone)
	if err != nil {
		h.metrics.RecordLoginFailure("invalid_phone")
		h.renderLogin(w, r, http.StatusUnprocessableEntity, phone, model.UIErrorMessage(err))
		return
	}

	if !h.limiter.Allow(normalized) {
		h.metrics.RecordLoginFailure("rate_limited")
		h.renderLogin(w, r, http.StatusTooManyRequests, phone,
			"試行回数が上限に達しました。しばらく待ってから再度お試しください。")
		return
	}

	if err := h.api.RequestOTP(r.Context(), normalized); err != nil {
		slog.Warn("認証コードの送信依頼に失敗しました", slog.String("error", err.Error()))
		h.metrics.RecordLoginFailure("request_otp_failed")
		h.renderLogin(w, r, http.StatusBadGateway, phone, model.UIErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/login/otp?phone="+url.QueryEscape(normalized), http.StatusSeeOther)
}

// OTPPage は認証コード入力フォームを表示する。
// GET /login/otp?phone=xxx
func (h *AuthHandler) OTPPage(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	h.renderOTP(w, r, http.StatusOK, phone, "", "")
}

// VerifyOTP は認証コードを検証し、セッションを確立する。
// POST /login/otp
// コードの形式が不正な場合はバックエンドへのリクエストを発行しない。
// トークン取得後は/meでユーザー識別情報を解決してからホームへリダイレクトする。
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	phone := r.PostFormValue("phone")
	code := r.PostFormValue("code")

	normalizedPhone, err := normalizePhone(phone)
	if err != nil {
		h.metrics.RecordLoginFailure("invalid_phone")
		h.renderOTP(w, r, http.StatusUnprocessableEntity, phone, code, model.UIErrorMessage(err))
		return
	}

	normalizedCode, err := normalizeOTP(code)
	if err != nil {
		h.metrics.RecordLoginFailure("invalid_code")
		h.renderOTP(w, r, http.StatusUnprocessableEntity, phone, code, model.UIErrorMessage(err))
		return
	}

	if !h.limiter.Allow(normalizedPhone) {
		h.metrics.RecordLoginFailure("rate_limited")
		h.renderOTP(w, r, http.StatusTooManyRequests, phone, "",
			"試行回数が上限に達しました。しばらく待ってから再度お試しください。")
		return
	}

	tok, err := h.api.VerifyOTP(r.Context(), normalizedPhone, normalizedCode)
	if err != nil {
		slog.Warn("認証コードの検証に失敗しました", slog.String("error", err.Error()))
		h.metrics.RecordLoginFailure("verify_failed")
		h.renderOTP(w, r, http.StatusUnprocessableEntity, phone, "", model.UIErrorMessage(err))
		return
	}

	user, err := h.api.FetchMe(r.Context(), tok)
	if err != nil {
		slog.Error("ログイン直後のユーザー解決に失敗しました", slog.String("error", err.Error()))
		h.metrics.RecordLoginFailure("resolve_failed")
		h.renderOTP(w, r, http.StatusBadGateway, phone, "",
			"ログイン処理に失敗しました。しばらく待ってから再度お試しください。")
		return
	}

	// トークンの永続化はLoginが行い、リダイレクトより前に完了する
	middleware.AuthFromContext(r.Context()).Login(w, user, tok)
	h.metrics.RecordLoginSuccess()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout はセッションを破棄してログイン画面へリダイレクトする。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.AuthFromContext(r.Context()).Logout(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// renderLogin はログインページを描画する。
func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, phone, errMsg string) {
	data := newPageData(r, "ログイン", map[string]any{"Phone": phone})
	data.Error = errMsg
	h.renderer.Render(w, status, "login", r.URL.Path, data)
}

// renderOTP は認証コード入力ページを描画する。
func (h *AuthHandler) renderOTP(w http.ResponseWriter, r *http.Request, status int, phone, code, errMsg string) {
	data := newPageData(r, "認証コードの確認", map[string]any{"Phone": phone, "Code": code})
	data.Error = errMsg
	h.renderer.Render(w, status, "otp", r.URL.Path, data)
}

// stripNonDigits は文字列から数字以外を取り除く。
func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizePhone は電話番号を正規化する。
// 数字以外を取り除いた結果が10桁未満の場合はエラー。
func normalizePhone(phone string) (string, error) {
	digits := stripNonDigits(phone)
	if len(digits) < 10 {
		return "", model.NewInvalidPhoneError()
	}
	return digits, nil
}

// normalizeOTP は認証コードを正規化する。
// 数字以外を取り除いた結果がちょうど6桁でない場合はエラー。
func normalizeOTP(code string) (string, error) {
	digits := stripNonDigits(code)
	if len(digits) != 6 {
		return "", model.NewInvalidOTPError()
	}
	return digits, nil
}
