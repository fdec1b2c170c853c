// Package guard は非公開ルートの描画を制御するルートガードを提供する。
// 判定は(認証状態, ロール, パス)の純粋関数であり、副作用を持たない。
// 同一入力に対する判定は常に同一（冪等）。
package guard

import (
	"strings"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/session"
)

// Decision はルートガードの判定結果を表す。
type Decision int

const (
	// DecisionPending は判定保留。Resolving中のみ使用し、何も描画しない。
	// 保護コンテンツの一瞬の表示や早すぎるリダイレクトを防ぐ。
	DecisionPending Decision = iota
	// DecisionRedirectToLogin はログイン画面へのリダイレクト。
	DecisionRedirectToLogin
	// DecisionRedirectToHome はホームへのリダイレクト（ロール不一致）。
	DecisionRedirectToHome
	// DecisionRender はアプリシェル付きでページを描画する。
	DecisionRender
	// DecisionRenderBare はシェルなしでページを描画する（公開パス）。
	DecisionRenderBare
)

// String はDecisionの文字列表現を返す。
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionRedirectToLogin:
		return "redirect_to_login"
	case DecisionRedirectToHome:
		return "redirect_to_home"
	case DecisionRender:
		return "render"
	case DecisionRenderBare:
		return "render_bare"
	default:
		return "unknown"
	}
}

// publicPrefixes はセッションなしでアクセス可能なパスのプレフィックス一覧。
// /login/otpは/loginのプレフィックス一致に含まれる。
var publicPrefixes = []string{"/login", "/ui-preview"}

// staffPrefix は職員ロールを必要とするサブツリーのプレフィックス。
const staffPrefix = "/staff"

// IsPublic はパスが公開パスかどうかを判定する。
func IsPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequiredRole はパスが要求するロールを返す。
// ロール要求がない場合は空文字列を返す。
func RequiredRole(path string) model.Role {
	if strings.HasPrefix(path, staffPrefix) {
		return model.RoleStaff
	}
	return ""
}

// Evaluate はルートガードの判定を行う。
//
// 判定順序:
//  1. 公開パスは認証状態によらず常に描画する（シェルなし）
//  2. Resolving中は何も描画しない（Pending）
//  3. 未認証で保護パスならログインへリダイレクト
//  4. 認証済みでもロール不一致ならホームへリダイレクト
//  5. それ以外はシェル付きで描画する
func Evaluate(state session.State, role model.Role, path string) Decision {
	if IsPublic(path) {
		return DecisionRenderBare
	}

	switch state {
	case session.StateResolving:
		return DecisionPending
	case session.StateUnauthenticated:
		return DecisionRedirectToLogin
	}

	if required := RequiredRole(path); required != "" && role != required {
		return DecisionRedirectToHome
	}

	return DecisionRender
}
