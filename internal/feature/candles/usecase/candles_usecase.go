// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"stock_evaluator/internal/feature/candles/domain/entity"
)

const (
	// DefaultInterval はローソク足クエリのデフォルト時間間隔です。
	DefaultInterval = "1day"
	// DefaultOutputSize はデフォルトのローソク足返却件数です。
	DefaultOutputSize = 252
	// MaxOutputSize はローソク足の最大返却件数です。
	MaxOutputSize = 5000
)

// SeriesSource は時系列データの読み取り元です。StoredSeriesMarket が実装します。
type SeriesSource interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// candlesUsecase はHTTP経由のローソク足参照を扱います。
type candlesUsecase struct {
	series SeriesSource
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(series SeriesSource) *candlesUsecase {
	return &candlesUsecase{series: series}
}

// GetCandles は指定された銘柄と時間間隔のローソク足データを新しい順で取得します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	cs, err := cu.series.GetTimeSeries(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, fmt.Errorf("get candles %s: %w", symbol, err)
	}
	return cs, nil
}
