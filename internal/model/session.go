// Package model はドメインモデルを定義する。
package model

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleParent は保護者ロール。
	RoleParent Role = "parent"
	// RoleStaff は職員ロール。
	RoleStaff Role = "staff"
)

// ParseRole はバックエンドのロール文字列をRoleに変換する。
// 未知のロール値は最小権限のRoleParentとして扱う（ロックアウト防止）。
func ParseRole(s string) Role {
	if s == string(RoleStaff) {
		return RoleStaff
	}
	return RoleParent
}

// Session は現在のリクエストにおける認証済みユーザーを表す。
// トークン解決（GET /me）またはOTP検証成功によって生成される。
type Session struct {
	UserID   string
	Phone    string
	Role     Role
	Name     string
	SchoolID string
}

// IsStaff は職員ロールかどうかを返す。
func (s *Session) IsStaff() bool {
	return s != nil && s.Role == RoleStaff
}
