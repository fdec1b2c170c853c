package model

import (
	"strings"
	"testing"
	"time"
)

func makeTicket(status TicketStatus, createdAt time.Time) *Ticket {
	return &Ticket{Status: status, CreatedAt: createdAt}
}

func TestEvaluateGuardrail_NoTickets_NotBlocked(t *testing.T) {
	state := EvaluateGuardrail(nil, time.Now())

	if state.Blocked {
		t.Errorf("Blocked = true, want false")
	}
}

func TestEvaluateGuardrail_ThreeOpenTickets_Blocked(t *testing.T) {
	now := time.Now()
	old := now.Add(-48 * time.Hour)
	tickets := []*Ticket{
		makeTicket(TicketStatusPending, old),
		makeTicket(TicketStatusInProgress, old),
		makeTicket(TicketStatusPending, old),
	}

	state := EvaluateGuardrail(tickets, now)

	if !state.Blocked {
		t.Fatal("Blocked = false, want true")
	}
	if state.Reason != GuardrailMaxOpen {
		t.Errorf("Reason = %v, want %v", state.Reason, GuardrailMaxOpen)
	}
}

func TestEvaluateGuardrail_ResolvedTicketsDoNotCountAsOpen(t *testing.T) {
	now := time.Now()
	old := now.Add(-8 * 24 * time.Hour)
	tickets := []*Ticket{
		makeTicket(TicketStatusResolved, old),
		makeTicket(TicketStatusResolved, old),
		makeTicket(TicketStatusPending, old),
	}

	state := EvaluateGuardrail(tickets, now)

	if state.Blocked {
		t.Errorf("Blocked = true, want false (open = 1)")
	}
}

func TestEvaluateGuardrail_RecentCreation_CooldownWithBlockUntil(t *testing.T) {
	now := time.Now()
	created := now.Add(-10 * time.Minute)
	tickets := []*Ticket{
		makeTicket(TicketStatusResolved, created),
	}

	state := EvaluateGuardrail(tickets, now)

	if !state.Blocked {
		t.Fatal("Blocked = false, want true")
	}
	if state.Reason != GuardrailCooldown {
		t.Errorf("Reason = %v, want %v", state.Reason, GuardrailCooldown)
	}
	want := created.Add(30 * time.Minute)
	if !state.BlockUntil.Equal(want) {
		t.Errorf("BlockUntil = %v, want %v", state.BlockUntil, want)
	}
}

func TestEvaluateGuardrail_CooldownExpired_NotBlocked(t *testing.T) {
	now := time.Now()
	tickets := []*Ticket{
		makeTicket(TicketStatusResolved, now.Add(-31*time.Minute)),
	}

	state := EvaluateGuardrail(tickets, now)

	if state.Blocked {
		t.Errorf("Blocked = true, want false")
	}
}

func TestEvaluateGuardrail_FiveInSevenDays_WeeklyCap(t *testing.T) {
	now := time.Now()
	tickets := make([]*Ticket, 0, 5)
	for i := 0; i < 5; i++ {
		tickets = append(tickets, makeTicket(TicketStatusResolved, now.Add(-time.Duration(i+1)*24*time.Hour)))
	}

	state := EvaluateGuardrail(tickets, now)

	if !state.Blocked {
		t.Fatal("Blocked = false, want true")
	}
	if state.Reason != GuardrailWeeklyCap {
		t.Errorf("Reason = %v, want %v", state.Reason, GuardrailWeeklyCap)
	}
}

func TestEvaluateGuardrail_MaxOpenWinsOverCooldown(t *testing.T) {
	now := time.Now()
	recent := now.Add(-5 * time.Minute)
	tickets := []*Ticket{
		makeTicket(TicketStatusPending, recent),
		makeTicket(TicketStatusPending, recent),
		makeTicket(TicketStatusInProgress, recent),
	}

	state := EvaluateGuardrail(tickets, now)

	if state.Reason != GuardrailMaxOpen {
		t.Errorf("Reason = %v, want %v", state.Reason, GuardrailMaxOpen)
	}
}

func TestGuardrailState_Message(t *testing.T) {
	tests := []struct {
		name   string
		reason GuardrailReason
		want   string
	}{
		{name: "未解決上限", reason: GuardrailMaxOpen, want: "3件"},
		{name: "クールダウン", reason: GuardrailCooldown, want: "30分"},
		{name: "週次上限", reason: GuardrailWeeklyCap, want: "5件"},
		{name: "その他", reason: GuardrailOther, want: "一時的に停止"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := GuardrailState{Blocked: true, Reason: tt.reason}
			if msg := state.Message(); !strings.Contains(msg, tt.want) {
				t.Errorf("Message() = %q, want substring %q", msg, tt.want)
			}
		})
	}
}
