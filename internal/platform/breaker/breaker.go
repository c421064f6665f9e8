// Package breaker は外部API呼び出し用のサーキットブレーカーを提供します。
package breaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen はブレーカーが開いている（または半開で試行数を超えた）ため呼び出しを行わなかったことを示します。
var ErrOpen = errors.New("circuit breaker is open")

// Settings はブレーカーの閾値です。
type Settings struct {
	// ConsecutiveFailures 回連続で失敗するとオープンします。
	ConsecutiveFailures uint32
	// OpenTimeout はオープン状態から半開に移るまでの時間です。
	OpenTimeout time.Duration
	// Interval はクローズ状態でカウンタをリセットする周期です。
	Interval time.Duration
}

// DefaultSettings は外部市場データAPI向けの既定値です。
func DefaultSettings() Settings {
	return Settings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		Interval:            time.Minute,
	}
}

// Breaker は gobreaker のラッパーです。
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New は名前付きのブレーカーを生成します。
func New(name string, s Settings) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = DefaultSettings().ConsecutiveFailures
	}
	st := gobreaker.Settings{
		Name:     name,
		Interval: s.Interval,
		Timeout:  s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Do は fn をブレーカー越しに実行します。オープン中は fn を呼ばずに ErrOpen を返します。
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// State は現在の状態名（"closed", "half-open", "open"）を返します。
func (b *Breaker) State() string {
	return b.cb.State().String()
}
