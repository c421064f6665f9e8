package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/candles/transport/handler"
	"stock_evaluator/internal/feature/candles/usecase"
	"stock_evaluator/internal/platform/breaker"
)

// mockCandlesUsecase はCandlesUsecaseインターフェースのモック実装です。
type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	return m.GetCandlesFunc(ctx, symbol, interval, outputsize)
}

// TestCandlesHandler_GetCandlesHandler はGetCandlesHandlerのHTTPリクエスト/レスポンス処理をテストします。
func TestCandlesHandler_GetCandlesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testTime := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockGetCandles func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: all parameters specified",
			url:  "/v1/candles/AAPL?interval=1week&outputsize=10",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, "AAPL", symbol)
				assert.Equal(t, "1week", interval)
				assert.Equal(t, 10, outputsize)
				return []entity.Candle{
					{Time: testTime, Open: 100, High: 110, Low: 90, Close: 105, Volume: 1000},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"time":"2025-01-02","open":100,"high":110,"low":90,"close":105,"volume":1000}]`,
		},
		{
			name: "success: default parameter values",
			url:  "/v1/candles/SPY",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, usecase.DefaultInterval, interval)
				assert.Equal(t, usecase.DefaultOutputSize, outputsize)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "edge case: invalid outputsize is passed as zero",
			url:  "/v1/candles/SPY?outputsize=abc",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, 0, outputsize)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: blank symbol",
			url:  "/v1/candles/%20",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, usecase.ErrEmptySymbol
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"symbol must not be empty"}`,
		},
		{
			name: "error: provider circuit open",
			url:  "/v1/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, fmt.Errorf("get candles AAPL: %w", breaker.ErrOpen)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"get candles AAPL: ` + breaker.ErrOpen.Error() + `"}`,
		},
		{
			name: "error: deadline exceeded",
			url:  "/v1/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, context.DeadlineExceeded
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"error":"context deadline exceeded"}`,
		},
		{
			name: "error: upstream failure",
			url:  "/v1/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, errors.New("twelvedata http 503")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"twelvedata http 503"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewCandlesHandler(&mockCandlesUsecase{GetCandlesFunc: tt.mockGetCandles})
			r := gin.New()
			r.GET("/v1/candles/:symbol", h.GetCandlesHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
