// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter は「interval あたり limit 回」の上限をトークンバケットで表現します。
// 複数のgoroutineから同時に使用できます。
type RateLimiter struct {
	lim      *rate.Limiter
	limit    int
	interval time.Duration
}

// NewRateLimiter は interval あたり limit 回まで許可する RateLimiter を生成します。
// limit が0以下の場合は無制限になります。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{
		lim:      rate.NewLimiter(every, limit),
		limit:    limit,
		interval: interval,
	}
}

// Wait はトークンが得られるまで待機します。ctx が先に終了した場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.lim.Limit() != rate.Inf && rl.lim.Tokens() < 1 {
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval)
	}
	return rl.lim.Wait(ctx)
}
