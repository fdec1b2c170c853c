// Package view はHTMLテンプレートの描画とアプリシェルの構成を提供する。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/syncdesk/internal/model"
)

//go:embed templates
var templateFS embed.FS

// layoutShell はヘッダーと下部ナビゲーションを含むレイアウト。
const layoutShell = "shell.html"

// layoutBare はシェルなしのレイアウト（公開ページおよびエラーページ用）。
const layoutBare = "bare.html"

// shellPages はシェル付きで描画するページ一覧。
var shellPages = []string{
	"home", "tickets", "ticket_new", "ticket_confirm", "ticket_created",
	"ticket_detail", "ticket_not_found", "ticket_reopen", "ticket_satisfied",
	"announcements", "announcement_detail", "profile", "staff", "staff_ticket",
}

// barePages はシェルなしで描画するページ一覧。
var barePages = []string{"login", "otp", "ui_preview", "error"}

// PageData は全ページ共通のテンプレートデータ。
type PageData struct {
	Title     string
	User      *model.Session
	Nav       []NavItem
	CSRFToken string
	Error     string // 直前の操作のインラインエラーメッセージ
	Data      any
}

// Renderer は埋め込みテンプレートによるページ描画を提供する。
type Renderer struct {
	pages map[string]*parsedPage
}

// parsedPage はパース済みページとそのレイアウト名を保持する。
type parsedPage struct {
	tmpl   *template.Template
	layout string
}

// NewRenderer はRendererを生成する。
// 全ページテンプレートを起動時にパースし、不正なテンプレートは起動失敗にする。
func NewRenderer(sanitizer *ContentSanitizer) (*Renderer, error) {
	funcs := template.FuncMap{
		"safeHTML":      sanitizer.SafeHTML,
		"datetime":      formatDateTime,
		"categoryLabel": model.CategoryLabel,
		"statusLabel":   statusLabel,
	}

	pages := make(map[string]*parsedPage)

	parse := func(names []string, layout string) error {
		for _, name := range names {
			t, err := template.New(layout).Funcs(funcs).ParseFS(
				templateFS,
				"templates/"+layout,
				"templates/pages/"+name+".html",
			)
			if err != nil {
				return fmt.Errorf("テンプレート %s のパースに失敗しました: %w", name, err)
			}
			pages[name] = &parsedPage{tmpl: t, layout: layout}
		}
		return nil
	}

	if err := parse(shellPages, layoutShell); err != nil {
		return nil, err
	}
	if err := parse(barePages, layoutBare); err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

// Render はページを描画する。
// ユーザーとパスからナビゲーションを構築し、レイアウトに埋め込む。
func (r *Renderer) Render(w http.ResponseWriter, status int, page, path string, data *PageData) {
	p, ok := r.pages[page]
	if !ok {
		slog.Error("未登録のページが要求されました", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	if p.layout == layoutShell && data.Nav == nil {
		role := model.RoleParent
		if data.User != nil {
			role = data.User.Role
		}
		data.Nav = NavItems(role, path)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tmpl.ExecuteTemplate(w, p.layout, data); err != nil {
		slog.Error("テンプレートの描画に失敗しました",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// formatDateTime は日時を表示用にフォーマットする。ゼロ値は空文字列。
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006/01/02 15:04")
}

// statusLabel はチケット状態の表示名を返す。
func statusLabel(s model.TicketStatus) string {
	switch s {
	case model.TicketStatusPending:
		return "未対応"
	case model.TicketStatusInProgress:
		return "対応中"
	case model.TicketStatusResolved:
		return "解決済み"
	default:
		return string(s)
	}
}
