// Package view はHTMLテンプレートの描画とアプリシェルの構成を提供する。
package view

import (
	"strings"

	"github.com/hitoshi/syncdesk/internal/model"
)

// NavItem は下部ナビゲーションの1項目を表す。
type NavItem struct {
	Href    string
	Label   string
	Current bool
}

// NavItems は現在のロールとパスからナビゲーション項目を構築する。
// (ロール, パス)の純粋関数であり、状態もバックエンド呼び出しも持たない。
// 職員ロールの場合のみ「職員」項目を追加する。
// 現在位置の判定は「/」のみ完全一致、それ以外はプレフィックス一致で行い、
// 現在位置としてマークされる項目は常に1つ以下になる。
func NavItems(role model.Role, path string) []NavItem {
	items := []NavItem{
		{Href: "/", Label: "ホーム", Current: path == "/"},
		{Href: "/tickets", Label: "お問い合わせ", Current: strings.HasPrefix(path, "/tickets")},
	}
	if role == model.RoleStaff {
		items = append(items, NavItem{
			Href: "/staff", Label: "職員", Current: strings.HasPrefix(path, "/staff"),
		})
	}
	items = append(items,
		NavItem{Href: "/announcements", Label: "お知らせ", Current: strings.HasPrefix(path, "/announcements")},
		NavItem{Href: "/profile", Label: "プロフィール", Current: strings.HasPrefix(path, "/profile")},
	)
	return items
}
