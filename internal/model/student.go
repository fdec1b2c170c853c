// Package model はドメインモデルを定義する。
package model

// Student は保護者に紐付く児童・生徒を表す。
// バックエンドは氏名を返さないため、表示名はクラス情報から合成する。
type Student struct {
	ID        string
	SchoolID  string
	ClassName string
	Section   string
}

// DisplayName は児童の表示名を返す。
// 例: "3年A組"
func (s *Student) DisplayName() string {
	return s.ClassName + "年" + s.Section + "組"
}
