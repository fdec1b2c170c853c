package handler

import (
	"net/http"

	"github.com/hitoshi/syncdesk/internal/view"
)

// PreviewHandler はUIコンポーネントの確認用ページを提供する。
// 公開パスであり、バックエンド呼び出しを行わない。
type PreviewHandler struct {
	renderer *view.Renderer
}

// NewPreviewHandler はPreviewHandlerを生成する。
func NewPreviewHandler(renderer *view.Renderer) *PreviewHandler {
	return &PreviewHandler{renderer: renderer}
}

// Preview はUIプレビューを表示する。
// GET /ui-preview
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "ui_preview", r.URL.Path,
		newPageData(r, "UIプレビュー", nil))
}
