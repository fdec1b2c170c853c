package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/middleware"
	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// ProfileAPIInterface はプロフィールハンドラーが必要とするAPIクライアントのインターフェース。
type ProfileAPIInterface interface {
	FetchStudents(ctx context.Context, token string) ([]*model.Student, error)
}

// ProfileHandler はプロフィール画面のHTTPハンドラー。
type ProfileHandler struct {
	api      ProfileAPIInterface
	renderer *view.Renderer
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(api ProfileAPIInterface, renderer *view.Renderer) *ProfileHandler {
	return &ProfileHandler{api: api, renderer: renderer}
}

// Profile はプロフィール画面を表示する。
// GET /profile
// 職員には児童が紐付かないため、児童の取得は保護者のみ行う。
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	var students []*model.Student
	var errMsg string

	user := middleware.SessionFromRequest(r)
	if user != nil && !user.IsStaff() {
		var err error
		students, err = h.api.FetchStudents(r.Context(), requestToken(r))
		if err != nil {
			slog.Warn("児童一覧の取得に失敗しました", slog.String("error", err.Error()))
			errMsg = model.UIErrorMessage(err)
		}
	}

	data := newPageData(r, "プロフィール", map[string]any{"Students": students})
	data.Error = errMsg
	h.renderer.Render(w, http.StatusOK, "profile", r.URL.Path, data)
}
