// Package app はアプリケーションの起動とワイヤリングを担当する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/syncdesk/internal/api"
	"github.com/hitoshi/syncdesk/internal/config"
	"github.com/hitoshi/syncdesk/internal/handler"
	"github.com/hitoshi/syncdesk/internal/logger"
	"github.com/hitoshi/syncdesk/internal/metrics"
	"github.com/hitoshi/syncdesk/internal/middleware"
	"github.com/hitoshi/syncdesk/internal/token"
	"github.com/hitoshi/syncdesk/internal/view"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, "info")

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルでロガーを再構成する
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.String("backend_url", cfg.BackendURL),
	)

	return runServe(cfg)
}

// runServe はWebサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. バックエンドAPIクライアントの初期化
	apiClient := api.NewClient(
		cfg.BackendURL,
		&http.Client{Timeout: cfg.BackendTimeout},
		slog.Default(),
		collector,
	)

	// 3. 描画の初期化
	sanitizer := view.NewContentSanitizer()
	renderer, err := view.NewRenderer(sanitizer)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	// 4. セッション基盤の初期化
	tokenStore := token.NewStore(cfg.CookieDomain, cfg.CookieSecure, cfg.SessionMaxAge)

	loginLimiter := middleware.NewLoginLimiter(
		middleware.DefaultLoginLimiterConfig(cfg.LoginRateLimit),
	)
	defer loginLimiter.Stop()

	// 5. ルーターの構築
	deps := &handler.RouterDeps{
		TokenStore:   tokenStore,
		Resolver:     apiClient,
		LoginLimiter: loginLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		GuardMetrics: collector,
		Logger:       slog.Default(),

		Renderer: renderer,

		AuthAPI:         apiClient,
		HomeAPI:         apiClient,
		TicketAPI:       apiClient,
		AnnouncementAPI: apiClient,
		ProfileAPI:      apiClient,
		StaffAPI:        apiClient,

		LoginMetrics:   collector,
		MetricsHandler: metrics.Handler(registry),
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("web server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
