package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// StaffAPIInterface は職員ハンドラーが必要とするAPIクライアントのインターフェース。
type StaffAPIInterface interface {
	FetchTickets(ctx context.Context, token string) ([]*model.Ticket, error)
	FetchTicket(ctx context.Context, token, id string) (*model.Ticket, error)
	ReplyToTicket(ctx context.Context, token, id, body string) (*model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, token, id string, status model.TicketStatus) (*model.Ticket, error)
	AddInternalNote(ctx context.Context, token, id, body string) error
}

// StaffHandler は職員向け画面のHTTPハンドラー。
// ルートガードにより職員ロール以外は到達しない。
type StaffHandler struct {
	api      StaffAPIInterface
	renderer *view.Renderer
}

// NewStaffHandler はStaffHandlerを生成する。
func NewStaffHandler(api StaffAPIInterface, renderer *view.Renderer) *StaffHandler {
	return &StaffHandler{api: api, renderer: renderer}
}

// Queue は職員のチケットキューを表示する。
// GET /staff?status=pending|in_progress|resolved
func (h *StaffHandler) Queue(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")

	tickets, err := h.api.FetchTickets(r.Context(), requestToken(r))
	if err != nil {
		slog.Warn("チケット一覧の取得に失敗しました", slog.String("error", err.Error()))
		data := newPageData(r, "職員キュー", map[string]any{"Tickets": nil, "StatusFilter": filter})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusBadGateway, "staff", r.URL.Path, data)
		return
	}

	if filter != "" {
		filtered := make([]*model.Ticket, 0, len(tickets))
		for _, t := range tickets {
			if string(t.Status) == filter {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}

	data := newPageData(r, "職員キュー", map[string]any{
		"Tickets":      tickets,
		"StatusFilter": filter,
	})
	h.renderer.Render(w, http.StatusOK, "staff", r.URL.Path, data)
}

// Detail はチケット詳細（内部メモを含む全スレッド）を表示する。
// GET /staff/tickets/{id}
func (h *StaffHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, chi.URLParam(r, "id"), http.StatusOK, "")
}

// Reply はチケットに職員として返信する。
// POST /staff/tickets/{id}/reply
func (h *StaffHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body := strings.TrimSpace(r.PostFormValue("body"))

	if body == "" {
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, "返信内容を入力してください。")
		return
	}

	if _, err := h.api.ReplyToTicket(r.Context(), requestToken(r), id, body); err != nil {
		slog.Warn("職員返信に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, model.UIErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/staff/tickets/"+id, http.StatusSeeOther)
}

// UpdateStatus はチケットの状態を変更する。
// POST /staff/tickets/{id}/status
func (h *StaffHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := model.TicketStatus(r.PostFormValue("status"))

	switch status {
	case model.TicketStatusInProgress, model.TicketStatusResolved:
	default:
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, "状態の指定が不正です。")
		return
	}

	if _, err := h.api.UpdateTicketStatus(r.Context(), requestToken(r), id, status); err != nil {
		slog.Warn("チケット状態の変更に失敗しました",
			slog.String("ticket_id", id),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, model.UIErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/staff/tickets/"+id, http.StatusSeeOther)
}

// AddNote はチケットに内部メモを追加する。内部メモは保護者には表示されない。
// POST /staff/tickets/{id}/note
func (h *StaffHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body := strings.TrimSpace(r.PostFormValue("body"))

	if body == "" {
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, "メモの内容を入力してください。")
		return
	}

	if err := h.api.AddInternalNote(r.Context(), requestToken(r), id, body); err != nil {
		slog.Warn("内部メモの追加に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, model.UIErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/staff/tickets/"+id, http.StatusSeeOther)
}

// renderDetail は職員向けチケット詳細を描画する。
func (h *StaffHandler) renderDetail(w http.ResponseWriter, r *http.Request, id string, status int, errMsg string) {
	ticket, err := h.api.FetchTicket(r.Context(), requestToken(r), id)
	if err != nil {
		slog.Warn("チケットの取得に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		data := newPageData(r, "職員キュー", map[string]any{"Tickets": nil, "StatusFilter": ""})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusBadGateway, "staff", r.URL.Path, data)
		return
	}
	if ticket == nil {
		h.renderer.Render(w, http.StatusNotFound, "ticket_not_found", r.URL.Path,
			newPageData(r, "お問い合わせが見つかりません", nil))
		return
	}

	data := newPageData(r, ticket.Title, map[string]any{"Ticket": ticket})
	data.Error = errMsg
	h.renderer.Render(w, status, "staff_ticket", r.URL.Path, data)
}
