package view

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/syncdesk/internal/model"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(NewContentSanitizer())
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range append(append([]string{}, shellPages...), barePages...) {
		if _, ok := r.pages[name]; !ok {
			t.Errorf("ページ %s がパースされていない", name)
		}
	}
}

func TestRender_LoginPage_NoShell(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, 200, "login", "/login", &PageData{
		Title:     "ログイン",
		CSRFToken: "tok123",
		Data:      map[string]any{"Phone": ""},
	})

	body := rec.Body.String()
	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, `action="/login"`) {
		t.Errorf("ログインフォームが描画されていない:\n%s", body)
	}
	if strings.Contains(body, "メインナビゲーション") {
		t.Error("公開ページに下部ナビゲーションが描画されている")
	}
}

func TestRender_HomePage_BuildsNavForRole(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name      string
		role      model.Role
		wantStaff bool
	}{
		{name: "保護者", role: model.RoleParent, wantStaff: false},
		{name: "職員", role: model.RoleStaff, wantStaff: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Render(rec, 200, "home", "/", &PageData{
				Title: "ホーム",
				User:  &model.Session{UserID: "1", Phone: "09012345678", Role: tt.role},
				Data:  map[string]any{"OpenTickets": 0, "UnreadAnnouncements": 0},
			})

			body := rec.Body.String()
			hasStaff := strings.Contains(body, `href="/staff"`)
			if hasStaff != tt.wantStaff {
				t.Errorf("職員タブの表示 = %v, want %v", hasStaff, tt.wantStaff)
			}
		})
	}
}

func TestRender_TicketDetail_HidesInternalNotes(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	ticket := &model.Ticket{
		ID:       "12",
		Category: model.TicketCategoryTransport,
		Status:   model.TicketStatusInProgress,
		Urgency:  model.TicketUrgencyUrgent,
		Title:    "バスの遅延について",
		Messages: []model.TicketMessage{
			{ID: "1", Body: "バスが来ません", IsStaff: false, CreatedAt: time.Now()},
			{ID: "2", Body: "内部での確認事項", IsStaff: true, IsInternalNote: true, CreatedAt: time.Now()},
			{ID: "3", Body: "確認します", IsStaff: true, CreatedAt: time.Now()},
		},
	}

	r.Render(rec, 200, "ticket_detail", "/tickets/12", &PageData{
		Title: ticket.Title,
		User:  &model.Session{UserID: "1", Role: model.RoleParent},
		Data: map[string]any{
			"Ticket":       ticket,
			"StudentNames": "山田 太郎",
			"Messages":     ticket.PublicMessages(),
		},
	})

	body := rec.Body.String()
	if strings.Contains(body, "内部での確認事項") {
		t.Error("保護者向け画面に内部メモが描画されている")
	}
	if !strings.Contains(body, "確認します") {
		t.Error("職員の公開返信が描画されていない")
	}
	if !strings.Contains(body, "緊急") {
		t.Error("緊急バッジが描画されていない")
	}
}

func TestRender_StaffTicket_ShowsInternalNotes(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	ticket := &model.Ticket{
		ID:       "12",
		Category: model.TicketCategoryOther,
		Status:   model.TicketStatusPending,
		Urgency:  model.TicketUrgencyNormal,
		Title:    "給食について",
		Messages: []model.TicketMessage{
			{ID: "1", Body: "内部での確認事項", IsStaff: true, IsInternalNote: true, CreatedAt: time.Now()},
		},
	}

	r.Render(rec, 200, "staff_ticket", "/staff/tickets/12", &PageData{
		Title: ticket.Title,
		User:  &model.Session{UserID: "2", Role: model.RoleStaff},
		Data:  map[string]any{"Ticket": ticket},
	})

	body := rec.Body.String()
	if !strings.Contains(body, "内部での確認事項") {
		t.Error("職員向け画面に内部メモが描画されていない")
	}
	if !strings.Contains(body, "内部メモ") {
		t.Error("内部メモのラベルが描画されていない")
	}
}

func TestRender_UnknownPage_Returns500(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, 200, "no_such_page", "/", nil)

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := formatDateTime(time.Time{}); got != "" {
		t.Errorf("formatDateTime(zero) = %q, want empty", got)
	}
	ts := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)
	if got := formatDateTime(ts); got != "2025/04/01 09:30" {
		t.Errorf("formatDateTime() = %q, want 2025/04/01 09:30", got)
	}
}
