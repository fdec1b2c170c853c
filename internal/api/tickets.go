package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
)

// ticketAPI はバックエンドのチケットレコード。
type ticketAPI struct {
	ID         int64              `json:"id"`
	Category   string             `json:"category"`
	Status     string             `json:"status"`
	Urgency    bool               `json:"urgency"`
	Title      *string            `json:"title"`
	CreatedAt  string             `json:"created_at"`
	UpdatedAt  string             `json:"updated_at"`
	StudentIDs []int64            `json:"student_ids"`
	Messages   []ticketMessageAPI `json:"messages"`
	KnownIssue bool               `json:"known_issue"`
}

// ticketMessageAPI はバックエンドのチケットメッセージレコード。
type ticketMessageAPI struct {
	ID             int64  `json:"id"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
	IsStaff        bool   `json:"is_staff"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// toTicket はワイヤ形式をUI向けモデルに変換する。
// 緊急度はbool値から列挙に、数値IDは文字列に変換する。
func toTicket(t *ticketAPI) *model.Ticket {
	title := ""
	if t.Title != nil {
		title = *t.Title
	}
	urgency := model.TicketUrgencyNormal
	if t.Urgency {
		urgency = model.TicketUrgencyUrgent
	}
	studentIDs := make([]string, 0, len(t.StudentIDs))
	for _, id := range t.StudentIDs {
		studentIDs = append(studentIDs, formatID(id))
	}
	messages := make([]model.TicketMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		messages = append(messages, model.TicketMessage{
			ID:             formatID(m.ID),
			Body:           m.Body,
			IsStaff:        m.IsStaff,
			IsInternalNote: m.IsInternalNote,
			CreatedAt:      parseTime(m.CreatedAt),
		})
	}
	return &model.Ticket{
		ID:         formatID(t.ID),
		Category:   model.CategoryFromBackend(t.Category),
		Status:     model.TicketStatus(t.Status),
		Urgency:    urgency,
		Title:      title,
		StudentIDs: studentIDs,
		Messages:   messages,
		KnownIssue: t.KnownIssue,
		CreatedAt:  parseTime(t.CreatedAt),
		UpdatedAt:  parseTime(t.UpdatedAt),
	}
}

// createTicketBody はPOST /ticketsのリクエストボディ。
type createTicketBody struct {
	StudentIDs  []int64 `json:"student_ids"`
	Category    string  `json:"category"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Urgency     bool    `json:"urgency"`
}

// FetchTickets は呼び出しユーザーのチケット一覧を取得する。
// GET /tickets
func (c *Client) FetchTickets(ctx context.Context, token string) ([]*model.Ticket, error) {
	var list []ticketAPI
	if err := c.doJSON(ctx, http.MethodGet, "/tickets", token, nil, &list); err != nil {
		return nil, err
	}
	tickets := make([]*model.Ticket, 0, len(list))
	for i := range list {
		tickets = append(tickets, toTicket(&list[i]))
	}
	return tickets, nil
}

// FetchTicket は単一チケットを取得する。
// GET /tickets/{id}
// チケットが存在しない場合（404）はエラーではなく(nil, nil)を返す。
func (c *Client) FetchTicket(ctx context.Context, token, id string) (*model.Ticket, error) {
	var t ticketAPI
	if err := c.doJSON(ctx, http.MethodGet, "/tickets/"+id, token, nil, &t); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toTicket(&t), nil
}

// CreateTicket はチケットを作成する。
// POST /tickets
func (c *Client) CreateTicket(ctx context.Context, token string, input *model.NewTicketInput) (*model.Ticket, error) {
	studentIDs, err := parseIDList(input.StudentIDs)
	if err != nil {
		return nil, model.NewValidationError("児童の選択内容が不正です。")
	}

	body := createTicketBody{
		StudentIDs: studentIDs,
		Category:   model.CategoryToBackend(input.Category),
		Urgency:    input.Urgency == model.TicketUrgencyUrgent,
	}
	if input.Title != "" {
		body.Title = &input.Title
	}
	if input.Description != "" {
		body.Description = &input.Description
	}

	var t ticketAPI
	if err := c.doJSON(ctx, http.MethodPost, "/tickets", token, body, &t); err != nil {
		return nil, err
	}
	return toTicket(&t), nil
}

// ReplyToTicket はチケットに返信を追加する。
// POST /tickets/{id}/reply
func (c *Client) ReplyToTicket(ctx context.Context, token, id, body string) (*model.Ticket, error) {
	var t ticketAPI
	req := map[string]string{"body": body}
	if err := c.doJSON(ctx, http.MethodPost, "/tickets/"+id+"/reply", token, req, &t); err != nil {
		return nil, err
	}
	return toTicket(&t), nil
}

// UpdateTicketStatus はチケットの状態を変更する（職員のみ）。
// PATCH /tickets/{id}/status
func (c *Client) UpdateTicketStatus(ctx context.Context, token, id string, status model.TicketStatus) (*model.Ticket, error) {
	var t ticketAPI
	req := map[string]string{"status": string(status)}
	if err := c.doJSON(ctx, http.MethodPatch, "/tickets/"+id+"/status", token, req, &t); err != nil {
		return nil, err
	}
	return toTicket(&t), nil
}

// AddInternalNote はチケットに職員専用の内部メモを追加する。
// POST /tickets/{id}/internal-notes
func (c *Client) AddInternalNote(ctx context.Context, token, id, body string) error {
	req := map[string]string{"body": body}
	var out otpMessageResponse
	return c.doJSON(ctx, http.MethodPost, "/tickets/"+id+"/internal-notes", token, req, &out)
}

// RequestReopen は解決済みチケットの再開を理由付きで依頼する。
// POST /tickets/{id}/reopen
func (c *Client) RequestReopen(ctx context.Context, token, id, reason string) error {
	req := map[string]string{"reason": reason}
	return c.doJSON(ctx, http.MethodPost, "/tickets/"+id+"/reopen", token, req, nil)
}

// MarkSatisfied は解決済みチケットを「解決に満足」として記録する。
// POST /tickets/{id}/satisfied
func (c *Client) MarkSatisfied(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/tickets/"+id+"/satisfied", token, nil, nil)
}
