// Package model はドメインモデルを定義する。
package model

import "time"

// TicketStatus はチケットの状態を表す。
type TicketStatus string

const (
	// TicketStatusPending は未対応状態。
	TicketStatusPending TicketStatus = "pending"
	// TicketStatusInProgress は対応中状態。
	TicketStatusInProgress TicketStatus = "in_progress"
	// TicketStatusResolved は解決済み状態。
	TicketStatusResolved TicketStatus = "resolved"
)

// TicketUrgency はチケットの緊急度を表す。
// バックエンドのbool値（urgency）をUI向けの列挙に変換したもの。
type TicketUrgency string

const (
	// TicketUrgencyNormal は通常の緊急度。
	TicketUrgencyNormal TicketUrgency = "normal"
	// TicketUrgencyUrgent は緊急。
	TicketUrgencyUrgent TicketUrgency = "urgent"
)

// TicketCategory はチケットのカテゴリを表す。
type TicketCategory string

const (
	// TicketCategoryAcademic は学習・授業に関するカテゴリ。
	TicketCategoryAcademic TicketCategory = "academic"
	// TicketCategoryTransport は通学・送迎に関するカテゴリ。
	TicketCategoryTransport TicketCategory = "transport"
	// TicketCategoryHealthSafety は健康・安全に関するカテゴリ。
	TicketCategoryHealthSafety TicketCategory = "health_safety"
	// TicketCategoryOther はその他のカテゴリ。
	TicketCategoryOther TicketCategory = "other"
)

// CategoryLabel はカテゴリの表示名を返す。
func CategoryLabel(c TicketCategory) string {
	switch c {
	case TicketCategoryAcademic:
		return "学習・授業"
	case TicketCategoryTransport:
		return "通学・送迎"
	case TicketCategoryHealthSafety:
		return "健康・安全"
	case TicketCategoryOther:
		return "その他"
	default:
		return string(c)
	}
}

// CategoryToBackend はUI向けカテゴリをバックエンドのカテゴリコードに変換する。
// academicのみバックエンド側で名称が異なる。
func CategoryToBackend(c TicketCategory) string {
	if c == TicketCategoryAcademic {
		return "academic_teaching"
	}
	return string(c)
}

// CategoryFromBackend はバックエンドのカテゴリコードをUI向けカテゴリに変換する。
func CategoryFromBackend(s string) TicketCategory {
	if s == "academic_teaching" {
		return TicketCategoryAcademic
	}
	return TicketCategory(s)
}

// CanBeUrgent は緊急度を指定できるカテゴリかどうかを返す。
// 緊急指定は通学・送迎と健康・安全のみ許可する。
func (c TicketCategory) CanBeUrgent() bool {
	return c == TicketCategoryTransport || c == TicketCategoryHealthSafety
}

// Ticket は問い合わせチケットを表す。
type Ticket struct {
	ID         string
	Category   TicketCategory
	Status     TicketStatus
	Urgency    TicketUrgency
	Title      string
	StudentIDs []string
	Messages   []TicketMessage
	KnownIssue bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsUrgent は緊急指定されているかどうかを返す。
func (t *Ticket) IsUrgent() bool {
	return t.Urgency == TicketUrgencyUrgent
}

// IsResolved は解決済み状態かどうかを返す。
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved
}

// PublicMessages は内部メモを除いたメッセージ一覧を返す。
// 保護者向け画面では必ずこちらを使用する。
func (t *Ticket) PublicMessages() []TicketMessage {
	out := make([]TicketMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		if !m.IsInternalNote {
			out = append(out, m)
		}
	}
	return out
}

// TicketMessage はチケットスレッド内の1メッセージを表す。
type TicketMessage struct {
	ID             string
	Body           string
	IsStaff        bool
	IsInternalNote bool
	CreatedAt      time.Time
}

// NewTicketInput はチケット作成の入力を表す。
type NewTicketInput struct {
	StudentIDs  []string
	Category    TicketCategory
	Title       string
	Description string
	Urgency     TicketUrgency
}

// IsUrgent は緊急指定されているかどうかを返す。
func (in *NewTicketInput) IsUrgent() bool {
	return in.Urgency == TicketUrgencyUrgent
}
