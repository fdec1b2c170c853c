package middleware

import (
	"net/http"

	"github.com/hitoshi/syncdesk/internal/guard"
	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/session"
)

// GuardMetrics はルートガードのメトリクス記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type GuardMetrics interface {
	RecordGuardDecision(decision string)
}

// NewGuardMiddleware はルートガードのミドルウェアを返す。
// NewAuthMiddlewareの内側に配置すること。
//
// 判定結果の反映:
//   - Pending: 何も描画しない（204）。解決はAuthMiddlewareで完了しているため通常到達しない
//   - RedirectToLogin: /loginへ303リダイレクト
//   - RedirectToHome: /へ303リダイレクト
//   - Render / RenderBare: 後続のハンドラーへ委譲
//
// リダイレクトはリクエストにつき最大1回のみ発生する。
func NewGuardMiddleware(m GuardMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := AuthFromContext(r.Context())

			role := model.Role("")
			if user := ac.User(); user != nil {
				role = user.Role
			}

			decision := guard.Evaluate(ac.State(), role, r.URL.Path)
			if m != nil {
				m.RecordGuardDecision(decision.String())
			}

			switch decision {
			case guard.DecisionPending:
				w.WriteHeader(http.StatusNoContent)
			case guard.DecisionRedirectToLogin:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			case guard.DecisionRedirectToHome:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SessionFromRequest はガード通過済みリクエストから現在のセッションを返す。
// 公開パスでは未認証の場合があるためnilを返しうる。
func SessionFromRequest(r *http.Request) *model.Session {
	return AuthFromContext(r.Context()).User()
}

// StateFromRequest はリクエストの認証状態を返す。
func StateFromRequest(r *http.Request) session.State {
	return AuthFromContext(r.Context()).State()
}
