// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrSessionInvalid はトークン解決の失敗を表すセンチネルエラー。
// 期限切れ・改ざん・失効・ネットワーク障害を区別せず、
// いずれも「セッションなし」として扱う（フェイルクローズ）。
var ErrSessionInvalid = errors.New("session invalid")

// UIError は画面に表示するエラーの統一フォーマットを表す。
// 原因カテゴリとユーザー向け対処方法を含む。
type UIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, ticket, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *UIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeRequestFailed    = "REQUEST_FAILED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeSessionInvalid   = "SESSION_INVALID"
)

// NewRequestFailedError はバックエンドの非成功レスポンスによるエラーを生成する。
// detailにはレスポンスボディから抽出した説明を渡す。空の場合は汎用メッセージになる。
func NewRequestFailedError(detail string) *UIError {
	if detail == "" {
		detail = "リクエストの処理に失敗しました。"
	}
	return &UIError{
		Code:     ErrCodeRequestFailed,
		Message:  detail,
		Category: "ticket",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewValidationError は送信前のクライアント側入力チェックエラーを生成する。
// このエラーが返った場合、バックエンドへのリクエストは発行されない。
func NewValidationError(message string) *UIError {
	return &UIError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidPhoneError は電話番号の形式エラーを生成する。
func NewInvalidPhoneError() *UIError {
	return NewValidationError("有効な電話番号を入力してください。")
}

// NewInvalidOTPError は認証コードの形式エラーを生成する。
func NewInvalidOTPError() *UIError {
	return NewValidationError("お送りした6桁の認証コードを入力してください。")
}

// UIErrorMessage はエラーから画面表示用メッセージを取り出す。
// UIError以外のエラーは詳細を漏らさず汎用メッセージに置き換える。
func UIErrorMessage(err error) string {
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr.Message
	}
	return "エラーが発生しました。しばらく待ってから再度お試しください。"
}
