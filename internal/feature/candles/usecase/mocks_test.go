package usecase_test

import (
	"context"
	"errors"
	"sync"

	"stock_evaluator/internal/feature/candles/domain/entity"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// ErrMarketAPI は外部APIの失敗を表すセンチネルエラーです。
var ErrMarketAPI = errors.New("market API error")

// mockCandleRepository はCandleRepositoryインターフェースのモック実装です。
type mockCandleRepository struct {
	FindFunc        func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	UpsertBatchFunc func(ctx context.Context, candles []entity.Candle) error
	FindCalls       int
	UpsertCalls     int
}

func (m *mockCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	m.FindCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	m.UpsertCalls++
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, candles)
	}
	return errors.New("UpsertBatchFunc is not implemented")
}

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetTimeSeriesFunc  func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	GetTimeSeriesCalls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	m.GetTimeSeriesCalls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// mockLimiter は待機せずに呼び出し回数だけを記録します。
type mockLimiter struct {
	mu        sync.Mutex
	WaitCalls int
	WaitErr   error
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WaitCalls++
	return m.WaitErr
}
