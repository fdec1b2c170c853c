package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// AnnouncementAPIInterface はお知らせハンドラーが必要とするAPIクライアントのインターフェース。
type AnnouncementAPIInterface interface {
	FetchAnnouncements(ctx context.Context, token string) ([]*model.Announcement, error)
	MarkAnnouncementRead(ctx context.Context, token, id string) error
}

// AnnouncementHandler はお知らせ画面のHTTPハンドラー。
type AnnouncementHandler struct {
	api      AnnouncementAPIInterface
	renderer *view.Renderer
}

// NewAnnouncementHandler はAnnouncementHandlerを生成する。
func NewAnnouncementHandler(api AnnouncementAPIInterface, renderer *view.Renderer) *AnnouncementHandler {
	return &AnnouncementHandler{api: api, renderer: renderer}
}

// List はお知らせ一覧を表示する。未読を先頭に、新しい順に並べる。
// GET /announcements
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.api.FetchAnnouncements(r.Context(), requestToken(r))

	data := newPageData(r, "お知らせ", map[string]any{"Announcements": announcements})
	if err != nil {
		slog.Warn("お知らせ一覧の取得に失敗しました", slog.String("error", err.Error()))
		data.Error = model.UIErrorMessage(err)
	} else {
		sort.SliceStable(announcements, func(i, j int) bool {
			if announcements[i].Read != announcements[j].Read {
				return !announcements[i].Read
			}
			return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
		})
	}
	h.renderer.Render(w, http.StatusOK, "announcements", r.URL.Path, data)
}

// Detail はお知らせの本文を表示し、閲覧と同時に既読として記録する。
// GET /announcements/{id}
// 既読の記録失敗は表示を妨げない。
func (h *AnnouncementHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tok := requestToken(r)

	announcements, err := h.api.FetchAnnouncements(r.Context(), tok)
	if err != nil {
		slog.Warn("お知らせ一覧の取得に失敗しました", slog.String("error", err.Error()))
		data := newPageData(r, "お知らせ", map[string]any{"Announcements": nil})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusBadGateway, "announcements", r.URL.Path, data)
		return
	}

	var target *model.Announcement
	for _, a := range announcements {
		if a.ID == id {
			target = a
			break
		}
	}
	if target == nil {
		http.Redirect(w, r, "/announcements", http.StatusSeeOther)
		return
	}

	if !target.Read {
		if err := h.api.MarkAnnouncementRead(r.Context(), tok, id); err != nil {
			slog.Warn("お知らせの既読記録に失敗しました",
				slog.String("announcement_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	data := newPageData(r, target.Title, map[string]any{"Announcement": target})
	h.renderer.Render(w, http.StatusOK, "announcement_detail", r.URL.Path, data)
}

// MarkRead はお知らせを既読として記録する。
// POST /announcements/{id}/read
func (h *AnnouncementHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.MarkAnnouncementRead(r.Context(), requestToken(r), id); err != nil {
		slog.Warn("お知らせの既読記録に失敗しました",
			slog.String("announcement_id", id),
			slog.String("error", err.Error()),
		)
	}

	http.Redirect(w, r, "/announcements", http.StatusSeeOther)
}
