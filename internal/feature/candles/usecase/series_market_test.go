package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/candles/usecase"
)

// seriesEndingAt は最新の足が newest となる新しい順の系列を作ります。
func seriesEndingAt(newest time.Time, n int) []entity.Candle {
	out := make([]entity.Candle, n)
	for i := range out {
		out[i] = entity.Candle{Time: newest.AddDate(0, 0, -i), Close: 100 + float64(i)}
	}
	return out
}

func TestStoredSeriesMarket_GetTimeSeries(t *testing.T) {
	t.Parallel()

	now := time.Now()

	testCases := []struct {
		name                string
		stored              []entity.Candle
		findErr             error
		fetched             []entity.Candle
		fetchErr            error
		upsertErr           error
		expectedLen         int
		expectedErr         error
		expectedMarketCalls int
		expectedUpserts     int
	}{
		{
			name:                "fresh and complete store is served without the provider",
			stored:              seriesEndingAt(now.Add(-20*time.Hour), 5),
			expectedLen:         5,
			expectedMarketCalls: 0,
			expectedUpserts:     0,
		},
		{
			name:                "stale store is refreshed",
			stored:              seriesEndingAt(now.Add(-120*time.Hour), 5),
			fetched:             seriesEndingAt(now, 5),
			expectedLen:         5,
			expectedMarketCalls: 1,
			expectedUpserts:     1,
		},
		{
			name:                "short store is refreshed",
			stored:              seriesEndingAt(now, 3),
			fetched:             seriesEndingAt(now, 5),
			expectedLen:         5,
			expectedMarketCalls: 1,
			expectedUpserts:     1,
		},
		{
			name:                "store read failure falls through to the provider",
			findErr:             ErrDB,
			fetched:             seriesEndingAt(now, 5),
			expectedLen:         5,
			expectedMarketCalls: 1,
			expectedUpserts:     1,
		},
		{
			name:                "store write failure does not fail the request",
			fetched:             seriesEndingAt(now, 5),
			upsertErr:           ErrDB,
			expectedLen:         5,
			expectedMarketCalls: 1,
			expectedUpserts:     1,
		},
		{
			name:                "provider failure is returned",
			fetchErr:            ErrMarketAPI,
			expectedErr:         ErrMarketAPI,
			expectedMarketCalls: 1,
			expectedUpserts:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var upserted []entity.Candle
			candles := &mockCandleRepository{
				FindFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
					return tc.stored, tc.findErr
				},
				UpsertBatchFunc: func(ctx context.Context, cs []entity.Candle) error {
					upserted = cs
					return tc.upsertErr
				},
			}
			market := &mockMarketRepository{
				GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
					return tc.fetched, tc.fetchErr
				},
			}

			s := usecase.NewStoredSeriesMarket(candles, market, 0)
			got, err := s.GetTimeSeries(context.Background(), "AAPL", "1day", 5)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tc.expectedLen)
			}
			assert.Equal(t, tc.expectedMarketCalls, market.GetTimeSeriesCalls)
			assert.Equal(t, tc.expectedUpserts, candles.UpsertCalls)
			for _, c := range upserted {
				assert.Equal(t, "AAPL", c.Symbol)
				assert.Equal(t, "1day", c.Interval)
			}
		})
	}
}
