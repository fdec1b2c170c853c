// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// APIクライアントやミドルウェアから利用する。
type MetricsCollector interface {
	RecordBackendRequest(endpoint string, statusCode int, duration time.Duration)
	RecordGuardDecision(decision string)
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  prometheus.Histogram
	guardDecisions  *prometheus.CounterVec
	loginSuccess    prometheus.Counter
	loginFailure    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syncdesk_backend_request_total",
			Help: "バックエンドAPI呼び出しの合計数（エンドポイント・ステータス別）",
		}, []string{"endpoint", "status"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "syncdesk_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syncdesk_guard_decision_total",
			Help: "ルートガード判定の合計数（判定種別）",
		}, []string{"decision"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syncdesk_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syncdesk_login_failure_total",
			Help: "ログイン失敗の合計数（理由別）",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.guardDecisions,
		c.loginSuccess,
		c.loginFailure,
	)

	return c
}

// RecordBackendRequest はバックエンドAPI呼び出しを記録する。
// statusCode 0はネットワーク障害を表す。
func (c *Collector) RecordBackendRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	c.backendRequests.WithLabelValues(normalizeEndpoint(endpoint), status).Inc()
	c.backendLatency.Observe(duration.Seconds())
}

// RecordGuardDecision はルートガードの判定を記録する。
func (c *Collector) RecordGuardDecision(decision string) {
	c.guardDecisions.WithLabelValues(decision).Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailure.WithLabelValues(reason).Inc()
}

// normalizeEndpoint はパス中の数値IDをプレースホルダに置換する。
// ラベルのカーディナリティ増加を防ぐ。
func normalizeEndpoint(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
