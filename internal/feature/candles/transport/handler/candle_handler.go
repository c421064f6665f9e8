// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/candles/transport/http/dto"
	"stock_evaluator/internal/feature/candles/usecase"
	"stock_evaluator/internal/platform/breaker"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと時間間隔を受け取り、ローソク足データをJSONで返します。
//
// エンドポイント例:
// GET /v1/candles/:symbol?interval=1day&outputsize=252
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	// 数値でない場合は0になり、usecase側でデフォルト値に置き換えられる
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", strconv.Itoa(usecase.DefaultOutputSize)))

	candles, err := h.uc.GetCandles(c.Request.Context(), symbol, interval, outputsize)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptySymbol):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, breaker.ErrOpen):
			// 提供元が遮断中のため、ブレーカーが半開になる頃に再試行させる
			c.Header("Retry-After", strconv.Itoa(int(breaker.DefaultSettings().OpenTimeout.Seconds())))
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to get candles", "symbol", symbol, "interval", interval, "error", err)
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toResponse(candles))
}

// toResponse は日付をUTCのYYYY-MM-DDに揃えて変換します。
func toResponse(candles []entity.Candle) []dto.CandleResponse {
	out := make([]dto.CandleResponse, len(candles))
	for i, x := range candles {
		out[i] = dto.CandleResponse{
			Time:   x.Time.UTC().Format(time.DateOnly),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		}
	}
	return out
}
