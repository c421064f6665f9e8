package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_evaluator/internal/feature/candles/domain/entity"
)

// DefaultMaxAge は保存済み系列を最新とみなす最大経過時間です。週末を跨いでも再取得しない長さにしています。
const DefaultMaxAge = 96 * time.Hour

// CandleRepository はローソク足データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Find は新しい順にローソク足を返します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	// UpsertBatch はローソク足を一括で挿入または更新します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// MarketRepository は外部APIから株価データを取得するリポジトリのインターフェイスです。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// StoredSeriesMarket はDBを読み取りキャッシュとして使う時系列ソースです。
//
// DBに要求件数以上のデータがあり、最新の足が MaxAge 以内であればDBから返します。
// それ以外は外部APIから取得してDBへ書き戻します。書き戻しの失敗はログのみで、取得結果は返します。
type StoredSeriesMarket struct {
	candle CandleRepository
	market MarketRepository
	maxAge time.Duration
	now    func() time.Time
}

// NewStoredSeriesMarket は新しい StoredSeriesMarket を生成します。maxAge が0以下なら DefaultMaxAge を使います。
func NewStoredSeriesMarket(candle CandleRepository, market MarketRepository, maxAge time.Duration) *StoredSeriesMarket {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &StoredSeriesMarket{candle: candle, market: market, maxAge: maxAge, now: time.Now}
}

// GetTimeSeries は新しい順に最大 outputsize 件のローソク足を返します。
func (s *StoredSeriesMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	stored, err := s.candle.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		slog.Warn("failed to read stored series", "symbol", symbol, "interval", interval, "error", err)
	} else if s.fresh(stored, outputsize) {
		slog.Debug("serving stored series", "symbol", symbol, "interval", interval, "count", len(stored))
		return stored, nil
	}

	fetched, err := s.market.GetTimeSeries(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		fetched[i].Symbol = symbol
		fetched[i].Interval = interval
	}

	if err := s.candle.UpsertBatch(ctx, fetched); err != nil {
		slog.Warn("failed to store fetched series", "symbol", symbol, "interval", interval, "error", err)
	}
	return fetched, nil
}

func (s *StoredSeriesMarket) fresh(stored []entity.Candle, outputsize int) bool {
	if len(stored) == 0 || len(stored) < outputsize {
		return false
	}
	return s.now().Sub(stored[0].Time) <= s.maxAge
}
