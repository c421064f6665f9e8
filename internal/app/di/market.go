// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"stock_evaluator/internal/platform/breaker"
	"stock_evaluator/internal/platform/externalapi/twelvedata"
	infrahttp "stock_evaluator/internal/platform/http"
	"stock_evaluator/internal/shared/ratelimiter"
)

// NewMarketLimiter creates the limiter shared by every Twelve Data request in the process.
func NewMarketLimiter(cfg twelvedata.Config) *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
}

// NewMarket creates a fully configured TwelveDataMarket with HTTP client and
// a circuit breaker. A nil limiter leaves pacing to the caller (the ingest job).
func NewMarket(cfg twelvedata.Config, limiter *ratelimiter.RateLimiter) *twelvedata.TwelveDataMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	opts := []twelvedata.Option{
		twelvedata.WithBreaker(breaker.New("twelvedata", breaker.DefaultSettings())),
	}
	if limiter != nil {
		opts = append(opts, twelvedata.WithLimiter(limiter))
	}
	return twelvedata.NewTwelveDataMarket(cfg, httpClient, opts...)
}
