package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_evaluator/internal/feature/candles/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&CandleModel{}), "failed to migrate table")

	return db
}

func seedCandle(t *testing.T, db *gorm.DB, symbol, interval string, at time.Time, close float64) {
	t.Helper()

	err := db.Create(&CandleModel{
		Symbol:   symbol,
		Interval: interval,
		Time:     at,
		Open:     close - 1,
		High:     close + 2,
		Low:      close - 2,
		Close:    close,
		Volume:   1000,
	}).Error
	require.NoError(t, err, "failed to seed candle")
}

func daily(symbol string, at time.Time, close float64, volume int64) entity.Candle {
	return entity.Candle{
		Symbol:   symbol,
		Interval: "1day",
		Time:     at,
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
		Volume:   volume,
	}
}

func TestCandleRepository_UpsertBatch(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		candles      []entity.Candle
		setupFunc    func(t *testing.T, db *gorm.DB)
		validateFunc func(t *testing.T, db *gorm.DB)
	}{
		{
			name:    "success: insert series",
			candles: []entity.Candle{daily("MSFT", base, 400, 10), daily("MSFT", base.AddDate(0, 0, 1), 402, 12)},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&CandleModel{}).Count(&count)
				assert.Equal(t, int64(2), count)
			},
		},
		{
			name:    "success: empty slice is a no-op",
			candles: nil,
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&CandleModel{}).Count(&count)
				assert.Zero(t, count)
			},
		},
		{
			name:    "success: existing observation is updated in place",
			candles: []entity.Candle{daily("MSFT", base, 410, 0)},
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedCandle(t, db, "MSFT", "1day", base, 400)
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var rows []CandleModel
				require.NoError(t, db.Find(&rows).Error)
				require.Len(t, rows, 1)
				assert.Equal(t, 410.0, rows[0].Close)
				assert.Equal(t, int64(0), rows[0].Volume, "index volume of 0 must be stored as-is")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewCandleRepository(db)
			if tt.setupFunc != nil {
				tt.setupFunc(t, db)
			}

			err := repo.UpsertBatch(context.Background(), tt.candles)
			require.NoError(t, err)
			tt.validateFunc(t, db)
		})
	}
}

func TestCandleRepository_Find(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		symbol       string
		outputsize   int
		setupFunc    func(t *testing.T, db *gorm.DB)
		validateFunc func(t *testing.T, candles []entity.Candle)
	}{
		{
			name:       "success: unknown symbol yields empty result",
			symbol:     "NOPE",
			outputsize: 10,
			validateFunc: func(t *testing.T, candles []entity.Candle) {
				assert.Empty(t, candles)
			},
		},
		{
			name:       "success: filters by symbol and interval",
			symbol:     "MSFT",
			outputsize: 10,
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedCandle(t, db, "MSFT", "1day", base, 400)
				seedCandle(t, db, "MSFT", "1week", base, 401)
				seedCandle(t, db, "SPY", "1day", base, 500)
			},
			validateFunc: func(t *testing.T, candles []entity.Candle) {
				require.Len(t, candles, 1)
				assert.Equal(t, "MSFT", candles[0].Symbol)
				assert.Equal(t, "1day", candles[0].Interval)
			},
		},
		{
			name:       "success: newest first and limited",
			symbol:     "MSFT",
			outputsize: 3,
			setupFunc: func(t *testing.T, db *gorm.DB) {
				for i := 0; i < 6; i++ {
					seedCandle(t, db, "MSFT", "1day", base.AddDate(0, 0, i), 400+float64(i))
				}
			},
			validateFunc: func(t *testing.T, candles []entity.Candle) {
				require.Len(t, candles, 3)
				assert.Equal(t, 405.0, candles[0].Close)
				assert.True(t, candles[0].Time.After(candles[1].Time))
				assert.True(t, candles[1].Time.After(candles[2].Time))
			},
		},
		{
			name:       "success: zero outputsize returns everything",
			symbol:     "MSFT",
			outputsize: 0,
			setupFunc: func(t *testing.T, db *gorm.DB) {
				for i := 0; i < 4; i++ {
					seedCandle(t, db, "MSFT", "1day", base.AddDate(0, 0, i), 400)
				}
			},
			validateFunc: func(t *testing.T, candles []entity.Candle) {
				assert.Len(t, candles, 4)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewCandleRepository(db)
			if tt.setupFunc != nil {
				tt.setupFunc(t, db)
			}

			candles, err := repo.Find(context.Background(), tt.symbol, "1day", tt.outputsize)
			require.NoError(t, err)
			tt.validateFunc(t, candles)
		})
	}
}

func TestCandleRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCandleRepository(db)
	at := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	in := entity.Candle{Symbol: "AAPL", Interval: "1day", Time: at, Open: 196.5, High: 200.25, Low: 195.75, Close: 199.0, Volume: 51_000_000}

	require.NoError(t, repo.UpsertBatch(context.Background(), []entity.Candle{in}))

	out, err := repo.Find(context.Background(), "AAPL", "1day", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, at.Unix(), out[0].Time.Unix())
	assert.Equal(t, in.Open, out[0].Open)
	assert.Equal(t, in.High, out[0].High)
	assert.Equal(t, in.Low, out[0].Low)
	assert.Equal(t, in.Close, out[0].Close)
	assert.Equal(t, in.Volume, out[0].Volume)
}
