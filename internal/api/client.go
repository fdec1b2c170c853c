// Package api はSyncDeskバックエンドのRESTクライアントを提供する。
// バックエンドのワイヤ形式とUI向けモデルの変換を担当する。
// リトライ・キャッシュ・重複排除は行わず、1操作につき1リクエストを発行する。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/syncdesk/internal/model"
)

// MetricsRecorder はバックエンド呼び出しのメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordBackendRequest(endpoint string, statusCode int, duration time.Duration)
}

// noopRecorder はメトリクス未設定時のno-op実装。
type noopRecorder struct{}

func (noopRecorder) RecordBackendRequest(endpoint string, statusCode int, duration time.Duration) {}

// Client はSyncDeskバックエンドAPIのクライアント。
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// NewClient はClientの新しいインスタンスを生成する。
// metricsにnilを渡した場合は記録を行わない。
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, metrics MetricsRecorder) *Client {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// errorBody はバックエンドのエラーレスポンスボディ。
type errorBody struct {
	Detail string `json:"detail"`
}

// doJSON はバックエンドへのJSONリクエストを1回実行する。
// tokenが空でない場合はAuthorization: Bearerヘッダーを付与する。
// 非成功ステータスの場合はボディのdetailを抽出してUIErrorを返す。
// outがnilの場合はレスポンスボディをデコードしない。
func (c *Client) doJSON(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのエンコードに失敗しました: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.RecordBackendRequest(path, 0, duration)
		c.logger.Error("バックエンドAPIの呼び出しに失敗しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return model.NewRequestFailedError("")
	}
	defer resp.Body.Close()

	c.metrics.RecordBackendRequest(path, resp.StatusCode, duration)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return model.NewRequestFailedError("")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := extractDetail(data)
		c.logger.Warn("バックエンドAPIがエラーステータスを返しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return &statusError{status: resp.StatusCode, uiErr: model.NewRequestFailedError(detail)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.logger.Error("レスポンスJSONのパースに失敗しました",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return model.NewRequestFailedError("")
		}
	}

	return nil
}

// statusError はHTTPステータス付きのバックエンドエラー。
// 404の特別扱い（チケット未検出）に使用する。
type statusError struct {
	status int
	uiErr  *model.UIError
}

// Error はerrorインターフェースを実装する。
func (e *statusError) Error() string {
	return e.uiErr.Error()
}

// Unwrap はラップしたUIErrorを返す。
func (e *statusError) Unwrap() error {
	return e.uiErr
}

// extractDetail はエラーレスポンスボディからdetailを抽出する。
// 抽出できない場合は空文字列を返す（呼び出し元で汎用メッセージに置換される）。
func extractDetail(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return ""
	}
	return eb.Detail
}

// formatID は数値IDを文字列に変換する。
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseIDList は文字列ID一覧をバックエンドの数値IDに変換する。
func parseIDList(ids []string) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	for _, s := range ids {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("数値でないIDが含まれています: %q", s)
		}
		out = append(out, id)
	}
	return out, nil
}

// parseTime はバックエンドのISO8601タイムスタンプをパースする。
// タイムゾーンなしの形式にもフォールバックし、失敗時はゼロ値を返す。
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
