// Package model はドメインモデルを定義する。
package model

import "time"

// GuardrailReason はチケット作成がブロックされている理由を表す。
// 制限の判定と強制はバックエンド側が行い、クライアントは表示のみを担当する。
type GuardrailReason string

const (
	// GuardrailMaxOpen は未解決チケット数の上限に達している状態。
	GuardrailMaxOpen GuardrailReason = "max_open"
	// GuardrailCooldown は連続作成のクールダウン中の状態。
	GuardrailCooldown GuardrailReason = "cooldown"
	// GuardrailWeeklyCap は週次作成上限に達している状態。
	GuardrailWeeklyCap GuardrailReason = "weekly_cap"
	// GuardrailOther はその他の理由によるブロック状態。
	GuardrailOther GuardrailReason = "other"
)

// GuardrailState はチケット作成のブロック状態を表す。
type GuardrailState struct {
	Blocked    bool
	Reason     GuardrailReason
	BlockUntil time.Time
}

// ガードレールの閾値。バックエンド側の制限値と一致させている。
const (
	guardrailMaxOpen   = 3
	guardrailWeeklyCap = 5
	guardrailCooldown  = 30 * time.Minute
	guardrailWindow    = 7 * 24 * time.Hour
)

// EvaluateGuardrail は保有チケットから作成ブロック状態を導出する。
// 表示専用であり、実際の制限はバックエンドが強制する。
// 複数の条件に該当する場合はmax_open > cooldown > weekly_capの順で採用する。
func EvaluateGuardrail(tickets []*Ticket, now time.Time) GuardrailState {
	open := 0
	weekly := 0
	var lastCreated time.Time
	for _, t := range tickets {
		if t.Status != TicketStatusResolved {
			open++
		}
		if now.Sub(t.CreatedAt) < guardrailWindow {
			weekly++
		}
		if t.CreatedAt.After(lastCreated) {
			lastCreated = t.CreatedAt
		}
	}

	if open >= guardrailMaxOpen {
		return GuardrailState{Blocked: true, Reason: GuardrailMaxOpen}
	}
	if !lastCreated.IsZero() && now.Sub(lastCreated) < guardrailCooldown {
		return GuardrailState{
			Blocked:    true,
			Reason:     GuardrailCooldown,
			BlockUntil: lastCreated.Add(guardrailCooldown),
		}
	}
	if weekly >= guardrailWeeklyCap {
		return GuardrailState{Blocked: true, Reason: GuardrailWeeklyCap}
	}
	return GuardrailState{}
}

// Message はブロック理由に応じた保護者向けメッセージを返す。
func (g GuardrailState) Message() string {
	switch g.Reason {
	case GuardrailMaxOpen:
		return "未解決のお問い合わせが既に3件あります。いずれかが解決してから新しいお問い合わせを作成してください。"
	case GuardrailCooldown:
		return "次のお問い合わせまで30分ほどお待ちください。"
	case GuardrailWeeklyCap:
		return "直近7日間のお問い合わせが上限の5件に達しました。来週以降に作成できます。"
	default:
		return "現在お問い合わせの作成を一時的に停止しています。しばらく待ってから再度お試しください。"
	}
}
