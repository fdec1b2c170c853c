package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// HomeAPIInterface はホームハンドラーが必要とするAPIクライアントのインターフェース。
type HomeAPIInterface interface {
	FetchTickets(ctx context.Context, token string) ([]*model.Ticket, error)
	FetchAnnouncements(ctx context.Context, token string) ([]*model.Announcement, error)
}

// HomeHandler はホーム画面のHTTPハンドラー。
type HomeHandler struct {
	api      HomeAPIInterface
	renderer *view.Renderer
}

// NewHomeHandler はHomeHandlerを生成する。
func NewHomeHandler(api HomeAPIInterface, renderer *view.Renderer) *HomeHandler {
	return &HomeHandler{api: api, renderer: renderer}
}

// Home はホーム画面を表示する。
// GET /
// 件数の取得に失敗した場合もページ自体は表示し、エラーをインラインで示す。
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	tok := requestToken(r)

	openTickets := 0
	unread := 0
	var errMsg string

	tickets, err := h.api.FetchTickets(r.Context(), tok)
	if err != nil {
		slog.Warn("チケット一覧の取得に失敗しました", slog.String("error", err.Error()))
		errMsg = model.UIErrorMessage(err)
	} else {
		for _, t := range tickets {
			if t.Status != model.TicketStatusResolved {
				openTickets++
			}
		}
	}

	announcements, err := h.api.FetchAnnouncements(r.Context(), tok)
	if err != nil {
		slog.Warn("お知らせ一覧の取得に失敗しました", slog.String("error", err.Error()))
		if errMsg == "" {
			errMsg = model.UIErrorMessage(err)
		}
	} else {
		for _, a := range announcements {
			if !a.Read {
				unread++
			}
		}
	}

	data := newPageData(r, "ホーム", map[string]any{
		"OpenTickets":         openTickets,
		"UnreadAnnouncements": unread,
	})
	data.Error = errMsg
	h.renderer.Render(w, http.StatusOK, "home", r.URL.Path, data)
}
