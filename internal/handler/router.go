package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/syncdesk/internal/middleware"
	"github.com/hitoshi/syncdesk/internal/session"
	"github.com/hitoshi/syncdesk/internal/view"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenStore   session.TokenStore
	Resolver     session.Resolver
	LoginLimiter LoginLimiter
	CSRFConfig   middleware.CSRFConfig
	GuardMetrics middleware.GuardMetrics
	Logger       *slog.Logger

	// 描画
	Renderer *view.Renderer

	// APIクライアント（*api.Clientが全インターフェースを満たす）
	AuthAPI         AuthAPIInterface
	HomeAPI         HomeAPIInterface
	TicketAPI       TicketAPIInterface
	AnnouncementAPI AnnouncementAPIInterface
	ProfileAPI      ProfileAPIInterface
	StaffAPI        StaffAPIInterface

	// メトリクス
	LoginMetrics   LoginMetrics
	MetricsHandler http.Handler
}

// NewRouter は全ページ・全アクションのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CSRF → Auth（トークン解決） → Guard
//
// /healthzと/metricsは認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware(deps.Renderer))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	// --- 運用エンドポイント ---
	r.Get("/healthz", handleHealthz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.AuthAPI, deps.Renderer, deps.LoginLimiter, deps.LoginMetrics)
	homeHandler := NewHomeHandler(deps.HomeAPI, deps.Renderer)
	ticketHandler := NewTicketHandler(deps.TicketAPI, deps.Renderer)
	announcementHandler := NewAnnouncementHandler(deps.AnnouncementAPI, deps.Renderer)
	profileHandler := NewProfileHandler(deps.ProfileAPI, deps.Renderer)
	staffHandler := NewStaffHandler(deps.StaffAPI, deps.Renderer)
	previewHandler := NewPreviewHandler(deps.Renderer)

	// --- ページルート ---
	// 公開・保護を問わず全ページが認証解決とガード判定を通過する。
	// 公開パスはガードがRenderBareとして素通しする。
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewAuthMiddleware(deps.TokenStore, deps.Resolver))
		r.Use(middleware.NewGuardMiddleware(deps.GuardMetrics))

		// 認証
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.RequestOTP)
		r.Get("/login/otp", authHandler.OTPPage)
		r.Post("/login/otp", authHandler.VerifyOTP)
		r.Post("/logout", authHandler.Logout)

		// ホーム
		r.Get("/", homeHandler.Home)

		// お問い合わせ
		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", ticketHandler.List)
			r.Get("/new", ticketHandler.NewForm)
			r.Post("/new", ticketHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ticketHandler.Detail)
				r.Post("/reply", ticketHandler.Reply)
				r.Get("/reopen", ticketHandler.ReopenForm)
				r.Post("/reopen", ticketHandler.Reopen)
				r.Get("/satisfied", ticketHandler.SatisfiedForm)
				r.Post("/satisfied", ticketHandler.Satisfied)
			})
		})

		// お知らせ
		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", announcementHandler.List)
			r.Get("/{id}", announcementHandler.Detail)
			r.Post("/{id}/read", announcementHandler.MarkRead)
		})

		// プロフィール
		r.Get("/profile", profileHandler.Profile)

		// 職員
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", staffHandler.Queue)

			r.Route("/tickets/{id}", func(r chi.Router) {
				r.Get("/", staffHandler.Detail)
				r.Post("/reply", staffHandler.Reply)
				r.Post("/status", staffHandler.UpdateStatus)
				r.Post("/note", staffHandler.AddNote)
			})
		})

		// UIプレビュー（公開）
		r.Get("/ui-preview", previewHandler.Preview)
	})

	return r
}

// handleHealthz は死活監視エンドポイント。
// GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
