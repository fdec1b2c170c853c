// Package view はHTMLテンプレートの描画とアプリシェルの構成を提供する。
//
// ContentSanitizer はバックエンドから受け取ったお知らせ本文等のHTMLを
// サニタイズし、XSS攻撃からユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package view

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer はHTMLコンテンツのサニタイズ機能を提供する。
// テンプレート描画直前に使用される。
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerの新しいインスタンスを生成する。
// ポリシーの内容:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, strong, em
//   - script, iframe, styleおよびon*イベント属性は許可リスト外のため除去される
//   - aタグ: href属性のみ許可し、target="_blank"とrel="noopener noreferrer"を強制付与
func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "strong", "em",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &ContentSanitizer{policy: p}
}

// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
// 同一入力に対して常に同一出力を返す（冪等）。
func (s *ContentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}

// SafeHTML はサニタイズ済みHTMLをテンプレートで信頼できる形式として返す。
// テンプレート関数として登録し、バックエンド由来の本文の描画に使用する。
func (s *ContentSanitizer) SafeHTML(rawHTML string) template.HTML {
	return template.HTML(s.Sanitize(rawHTML))
}
