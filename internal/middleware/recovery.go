package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hitoshi/syncdesk/internal/view"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// エラーページを返すミドルウェアを生成する。
// レスポンスの書き込み途中でpanicした場合はそのまま切断に任せる。
func NewRecoveryMiddleware(renderer *view.Renderer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					renderer.Render(w, http.StatusInternalServerError, "error", r.URL.Path, &view.PageData{
						Title: "エラー",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
