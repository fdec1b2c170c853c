package middleware

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testLimiterConfig(burst int) LoginLimiterConfig {
	return LoginLimiterConfig{
		Rate:            rate.Limit(0.001), // テスト中の補充を実質無効化
		Burst:           burst,
		CleanupInterval: time.Hour,
	}
}

func TestLoginLimiter_AllowsUpToBurst(t *testing.T) {
	ll := NewLoginLimiter(testLimiterConfig(3))
	defer ll.Stop()

	for i := 0; i < 3; i++ {
		if !ll.Allow("09012345678") {
			t.Errorf("%d回目の試行が拒否された", i+1)
		}
	}
	if ll.Allow("09012345678") {
		t.Error("バースト超過後の試行が許可された")
	}
}

func TestLoginLimiter_PhonesAreIndependent(t *testing.T) {
	ll := NewLoginLimiter(testLimiterConfig(1))
	defer ll.Stop()

	if !ll.Allow("09011111111") {
		t.Error("1つ目の電話番号の初回試行が拒否された")
	}
	if ll.Allow("09011111111") {
		t.Error("1つ目の電話番号の2回目が許可された")
	}
	if !ll.Allow("09022222222") {
		t.Error("別の電話番号の初回試行が拒否された")
	}
}

func TestLoginLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	ll := NewLoginLimiter(LoginLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           1,
		CleanupInterval: time.Nanosecond,
	})
	defer ll.Stop()

	ll.Allow("09012345678")
	if ll.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", ll.Count())
	}

	time.Sleep(10 * time.Millisecond)
	ll.cleanup()

	if ll.Count() != 0 {
		t.Errorf("Count() = %d, want 0", ll.Count())
	}
}

func TestDefaultLoginLimiterConfig_MinimumOneAttempt(t *testing.T) {
	config := DefaultLoginLimiterConfig(0)

	if config.Burst != 1 {
		t.Errorf("Burst = %d, want 1", config.Burst)
	}
}
