package usecase

import (
	"context"
	"log/slog"
)

const (
	ingestInterval   = DefaultInterval
	ingestOutputSize = DefaultOutputSize // 1回のリクエストで取得するデータ件数
)

// Limiter は外部API呼び出しの頻度を制限します。
type Limiter interface {
	Wait(ctx context.Context) error
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market  MarketRepository
	candle  CandleRepository
	limiter Limiter
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, candle CandleRepository, limiter Limiter) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, limiter: limiter}
}

// ingestOne は1銘柄の日足を外部リポジトリから取得し、データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) (int, error) {
	cs, err := iu.market.GetTimeSeries(ctx, symbol, ingestInterval, ingestOutputSize)
	if err != nil {
		return 0, err
	}

	for i := range cs {
		cs[i].Symbol = symbol
		cs[i].Interval = ingestInterval
	}
	if err := iu.candle.UpsertBatch(ctx, cs); err != nil {
		return 0, err
	}
	return len(cs), nil
}

// IngestAll は全銘柄の日足を取得して永続化します。
// 1銘柄の失敗はログに出力して次へ進みます。コンテキストが終了した場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) error {
	for _, s := range symbols {
		if err := iu.limiter.Wait(ctx); err != nil {
			return err
		}
		n, err := iu.ingestOne(ctx, s)
		if err != nil {
			slog.Error("failed to ingest data", "symbol", s, "interval", ingestInterval, "error", err)
			continue
		}
		slog.Info("ingested series", "symbol", s, "count", n)
	}
	return nil
}
