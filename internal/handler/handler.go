// Package handler はHTTPハンドラーを提供する。
// 各ハンドラーはバックエンドAPIクライアントの部分インターフェースに依存し、
// ページの描画はview.Rendererに委譲する。
package handler

import (
	"net/http"
	"strings"

	"github.com/hitoshi/syncdesk/internal/middleware"
	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/view"
)

// newPageData はリクエストから共通のページデータを組み立てる。
// セッションとCSRFトークンはミドルウェアが注入済みのものを使用する。
func newPageData(r *http.Request, title string, data any) *view.PageData {
	return &view.PageData{
		Title:     title,
		User:      middleware.SessionFromRequest(r),
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      data,
	}
}

// requestToken はリクエストの認証コンテキストからベアラートークンを返す。
func requestToken(r *http.Request) string {
	return middleware.AuthFromContext(r.Context()).Token()
}

// studentNames はIDに対応する児童の表示名を「、」区切りで返す。
// 一致しないIDは無視する。
func studentNames(students []*model.Student, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, s := range students {
			if s.ID == id {
				names = append(names, s.DisplayName())
				break
			}
		}
	}
	return strings.Join(names, "、")
}
