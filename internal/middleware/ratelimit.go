package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiterConfig はログイン試行のレート制限設定を保持する。
type LoginLimiterConfig struct {
	Rate            rate.Limit    // 電話番号あたりのレート（req/sec）
	Burst           int           // バーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultLoginLimiterConfig はデフォルトのレート制限設定を返す。
// 電話番号あたり毎分attempts回のOTP要求・検証を許可する。
func DefaultLoginLimiterConfig(attempts int) LoginLimiterConfig {
	if attempts < 1 {
		attempts = 1
	}
	return LoginLimiterConfig{
		Rate:            rate.Limit(float64(attempts) / 60.0),
		Burst:           attempts,
		CleanupInterval: 5 * time.Minute,
	}
}

// phoneLimiter は電話番号ごとのレートリミッターとアクセス時刻を保持する。
type phoneLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter は電話番号ごとのログイン試行レート制限を管理する。
// OTPの要求と検証の両方で消費し、総当たり試行を抑止する。
type LoginLimiter struct {
	config LoginLimiterConfig

	mu       sync.Mutex
	limiters map[string]*phoneLimiter

	stopCh chan struct{}
}

// NewLoginLimiter は新しいLoginLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewLoginLimiter(config LoginLimiterConfig) *LoginLimiter {
	ll := &LoginLimiter{
		config:   config,
		limiters: make(map[string]*phoneLimiter),
		stopCh:   make(chan struct{}),
	}

	go ll.cleanupLoop()

	return ll
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (ll *LoginLimiter) Stop() {
	close(ll.stopCh)
}

// Allow は指定された電話番号の試行を許可するかどうかを返す。
func (ll *LoginLimiter) Allow(phone string) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	pl, exists := ll.limiters[phone]
	if !exists {
		pl = &phoneLimiter{
			limiter: rate.NewLimiter(ll.config.Rate, ll.config.Burst),
		}
		ll.limiters[phone] = pl
	}
	pl.lastAccess = time.Now()

	return pl.limiter.Allow()
}

// Count は現在管理されているリミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (ll *LoginLimiter) Count() int {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	return len(ll.limiters)
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (ll *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(ll.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ll.cleanup()
		case <-ll.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (ll *LoginLimiter) cleanup() {
	ttl := ll.config.CleanupInterval * 2
	now := time.Now()

	ll.mu.Lock()
	defer ll.mu.Unlock()
	for phone, pl := range ll.limiters {
		if now.Sub(pl.lastAccess) > ttl {
			delete(ll.limiters, phone)
		}
	}
}
