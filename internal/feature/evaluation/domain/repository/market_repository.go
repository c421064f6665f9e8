package repository

import (
	"context"

	candleentity "stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

// SeriesRepository は日足などの時系列株価を取得します。
type SeriesRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error)
}

// MetadataRepository はファンダメンタル・市場メタデータを取得します。
type MetadataRepository interface {
	GetMetadata(ctx context.Context, symbol string) (entity.Metadata, error)
}
