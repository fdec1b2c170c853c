package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// TicketAPIInterface はチケットハンドラーが必要とするAPIクライアントのインターフェース。
type TicketAPIInterface interface {
	FetchTickets(ctx context.Context, token string) ([]*model.Ticket, error)
	FetchTicket(ctx context.Context, token, id string) (*model.Ticket, error)
	CreateTicket(ctx context.Context, token string, input *model.NewTicketInput) (*model.Ticket, error)
	ReplyToTicket(ctx context.Context, token, id, body string) (*model.Ticket, error)
	RequestReopen(ctx context.Context, token, id, reason string) error
	MarkSatisfied(ctx context.Context, token, id string) error
	FetchStudents(ctx context.Context, token string) ([]*model.Student, error)
}

// ticketForm はチケット作成フォームの入力値。テンプレートへの差し戻し用。
type ticketForm struct {
	Category    string
	Title       string
	Description string
	Urgency     string
	StudentIDs  []string
}

// TicketHandler は保護者向けチケット画面のHTTPハンドラー。
type TicketHandler struct {
	api      TicketAPIInterface
	renderer *view.Renderer
}

// NewTicketHandler はTicketHandlerを生成する。
func NewTicketHandler(api TicketAPIInterface, renderer *view.Renderer) *TicketHandler {
	return &TicketHandler{api: api, renderer: renderer}
}

// List はチケット一覧を表示する。
// GET /tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.api.FetchTickets(r.Context(), requestToken(r))

	data := newPageData(r, "お問い合わせ", map[string]any{"Tickets": tickets})
	if err != nil {
		slog.Warn("チケット一覧の取得に失敗しました", slog.String("error", err.Error()))
		data.Error = model.UIErrorMessage(err)
	}
	h.renderer.Render(w, http.StatusOK, "tickets", r.URL.Path, data)
}

// NewForm はチケット作成フォームを表示する。
// GET /tickets/new
// 保有チケットからガードレール状態を導出し、ブロック中はバナーを表示して
// 送信ボタンを無効化する（強制はバックエンド側が行う）。
func (h *TicketHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderNewForm(w, r, http.StatusOK, &ticketForm{Category: string(model.TicketCategoryAcademic)}, "")
}

// Create はチケット作成の確認・送信を処理する。
// POST /tickets/new
// step=confirmで確認画面、step=submitで作成を実行する2段階フロー。
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderNewForm(w, r, http.StatusBadRequest, &ticketForm{}, "入力内容を読み取れませんでした。")
		return
	}

	form := &ticketForm{
		Category:    r.PostFormValue("category"),
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Urgency:     r.PostFormValue("urgency"),
		StudentIDs:  r.PostForm["student_id"],
	}

	input, errMsg := h.buildInput(form)
	if errMsg != "" {
		h.renderNewForm(w, r, http.StatusUnprocessableEntity, form, errMsg)
		return
	}

	switch r.PostFormValue("step") {
	case "confirm":
		students, err := h.api.FetchStudents(r.Context(), requestToken(r))
		if err != nil {
			slog.Warn("児童一覧の取得に失敗しました", slog.String("error", err.Error()))
			h.renderNewForm(w, r, http.StatusBadGateway, form, model.UIErrorMessage(err))
			return
		}
		data := newPageData(r, "内容の確認", map[string]any{
			"Input":        input,
			"StudentNames": studentNames(students, input.StudentIDs),
		})
		h.renderer.Render(w, http.StatusOK, "ticket_confirm", r.URL.Path, data)

	case "submit":
		if _, err := h.api.CreateTicket(r.Context(), requestToken(r), input); err != nil {
			slog.Warn("チケットの作成に失敗しました", slog.String("error", err.Error()))
			h.renderNewForm(w, r, http.StatusUnprocessableEntity, form, model.UIErrorMessage(err))
			return
		}
		h.renderer.Render(w, http.StatusOK, "ticket_created", r.URL.Path,
			newPageData(r, "受付完了", nil))

	default:
		h.renderNewForm(w, r, http.StatusBadRequest, form, "操作をやり直してください。")
	}
}

// Detail はチケット詳細（内部メモを除くスレッド）を表示する。
// GET /tickets/{id}
// 存在しないチケットはエラーバナーではなく専用ページを表示する。
func (h *TicketHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, chi.URLParam(r, "id"), http.StatusOK, "")
}

// Reply はチケットに返信を追加する。
// POST /tickets/{id}/reply
// 失敗時はスレッドを保持したままエラーをインラインで表示する。
func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body := strings.TrimSpace(r.PostFormValue("body"))

	if body == "" {
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, "返信内容を入力してください。")
		return
	}

	if _, err := h.api.ReplyToTicket(r.Context(), requestToken(r), id, body); err != nil {
		slog.Warn("チケットへの返信に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		h.renderDetail(w, r, id, http.StatusUnprocessableEntity, model.UIErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/tickets/"+id, http.StatusSeeOther)
}

// ReopenForm は再開依頼フォームを表示する。
// GET /tickets/{id}/reopen
func (h *TicketHandler) ReopenForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := newPageData(r, "再開の依頼", map[string]any{"TicketID": id, "Reason": ""})
	h.renderer.Render(w, http.StatusOK, "ticket_reopen", r.URL.Path, data)
}

// Reopen は解決済みチケットの再開を依頼する。
// POST /tickets/{id}/reopen
// 理由は必須で、空の場合はバックエンドへのリクエストを発行しない。
func (h *TicketHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reason := strings.TrimSpace(r.PostFormValue("reason"))

	if reason == "" {
		data := newPageData(r, "再開の依頼", map[string]any{"TicketID": id, "Reason": reason})
		data.Error = "再開を希望する理由を入力してください。"
		h.renderer.Render(w, http.StatusUnprocessableEntity, "ticket_reopen", r.URL.Path, data)
		return
	}

	if err := h.api.RequestReopen(r.Context(), requestToken(r), id, reason); err != nil {
		slog.Warn("再開依頼に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		data := newPageData(r, "再開の依頼", map[string]any{"TicketID": id, "Reason": reason})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusUnprocessableEntity, "ticket_reopen", r.URL.Path, data)
		return
	}

	http.Redirect(w, r, "/tickets/"+id, http.StatusSeeOther)
}

// SatisfiedForm は解決確認フォームを表示する。
// GET /tickets/{id}/satisfied
func (h *TicketHandler) SatisfiedForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := newPageData(r, "解決の確認", map[string]any{"TicketID": id})
	h.renderer.Render(w, http.StatusOK, "ticket_satisfied", r.URL.Path, data)
}

// Satisfied は解決済みチケットを「満足」として記録する。
// POST /tickets/{id}/satisfied
func (h *TicketHandler) Satisfied(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.MarkSatisfied(r.Context(), requestToken(r), id); err != nil {
		slog.Warn("解決の記録に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		data := newPageData(r, "解決の確認", map[string]any{"TicketID": id})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusUnprocessableEntity, "ticket_satisfied", r.URL.Path, data)
		return
	}

	http.Redirect(w, r, "/tickets/"+id, http.StatusSeeOther)
}

// buildInput はフォーム入力を検証してNewTicketInputを構築する。
// 検証エラーがある場合は2番目の戻り値にメッセージを返す。
func (h *TicketHandler) buildInput(form *ticketForm) (*model.NewTicketInput, string) {
	category := model.TicketCategory(form.Category)
	switch category {
	case model.TicketCategoryAcademic, model.TicketCategoryTransport,
		model.TicketCategoryHealthSafety, model.TicketCategoryOther:
	default:
		return nil, "カテゴリを選択してください。"
	}

	if len(form.StudentIDs) == 0 {
		return nil, "対象のお子様を1人以上選択してください。"
	}
	if form.Title == "" {
		return nil, "件名を入力してください。"
	}

	// 緊急指定は通学・送迎と健康・安全のみ。それ以外は通常に落とす
	urgency := model.TicketUrgencyNormal
	if form.Urgency == string(model.TicketUrgencyUrgent) && category.CanBeUrgent() {
		urgency = model.TicketUrgencyUrgent
	}

	return &model.NewTicketInput{
		StudentIDs:  form.StudentIDs,
		Category:    category,
		Title:       form.Title,
		Description: form.Description,
		Urgency:     urgency,
	}, ""
}

// renderNewForm はチケット作成フォームを描画する。
func (h *TicketHandler) renderNewForm(w http.ResponseWriter, r *http.Request, status int, form *ticketForm, errMsg string) {
	tok := requestToken(r)

	students, err := h.api.FetchStudents(r.Context(), tok)
	if err != nil {
		slog.Warn("児童一覧の取得に失敗しました", slog.String("error", err.Error()))
		if errMsg == "" {
			errMsg = model.UIErrorMessage(err)
		}
	}

	guardrail := model.GuardrailState{}
	if tickets, err := h.api.FetchTickets(r.Context(), tok); err == nil {
		guardrail = model.EvaluateGuardrail(tickets, time.Now())
	} else {
		slog.Warn("ガードレール判定用のチケット取得に失敗しました", slog.String("error", err.Error()))
	}

	data := newPageData(r, "お問い合わせの作成", map[string]any{
		"Form":      form,
		"Students":  students,
		"Guardrail": guardrail,
	})
	data.Error = errMsg
	h.renderer.Render(w, status, "ticket_new", r.URL.Path, data)
}

// renderDetail はチケット詳細を描画する。
func (h *TicketHandler) renderDetail(w http.ResponseWriter, r *http.Request, id string, status int, errMsg string) {
	tok := requestToken(r)

	ticket, err := h.api.FetchTicket(r.Context(), tok, id)
	if err != nil {
		slog.Warn("チケットの取得に失敗しました",
			slog.String("ticket_id", id),
			slog.String("error", err.Error()),
		)
		data := newPageData(r, "お問い合わせ", map[string]any{"Tickets": nil})
		data.Error = model.UIErrorMessage(err)
		h.renderer.Render(w, http.StatusBadGateway, "tickets", r.URL.Path, data)
		return
	}
	if ticket == nil {
		h.renderer.Render(w, http.StatusNotFound, "ticket_not_found", r.URL.Path,
			newPageData(r, "お問い合わせが見つかりません", nil))
		return
	}

	names := ""
	if students, err := h.api.FetchStudents(r.Context(), tok); err == nil {
		names = studentNames(students, ticket.StudentIDs)
	}

	data := newPageData(r, ticket.Title, map[string]any{
		"Ticket":       ticket,
		"StudentNames": names,
		"Messages":     ticket.PublicMessages(),
	})
	data.Error = errMsg
	h.renderer.Render(w, status, "ticket_detail", r.URL.Path, data)
}
