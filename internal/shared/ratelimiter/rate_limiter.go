// Package ratelimiter throttles outbound calls to third-party APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterは、API呼び出しなどの操作の頻度を固定ウィンドウで制限します。
// 複数のゴルーチンから安全に使用できます。
type RateLimiter struct {
	mu          sync.Mutex
	limit       int           // ウィンドウあたりの上限。0以下は無制限
	interval    time.Duration // どの単位でリセットするか
	count       int
	windowStart time.Time
	now         func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		interval:    interval,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// Waitはレートリミットの上限に達しているかを確認し、必要であれば次のウィンドウまで待機します。
// 待機中にctxがキャンセルされた場合はctx.Err()を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return ctx.Err()
	}
	for {
		rl.mu.Lock()
		now := rl.now()
		// interval を過ぎたらカウントリセット
		if now.Sub(rl.windowStart) >= rl.interval {
			rl.count = 0
			rl.windowStart = now
		}
		if rl.count < rl.limit {
			rl.count++
			rl.mu.Unlock()
			return nil
		}
		sleep := rl.interval - now.Sub(rl.windowStart)
		rl.mu.Unlock()

		slog.Warn("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
