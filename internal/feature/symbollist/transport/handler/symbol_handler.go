// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_evaluator/internal/feature/symbollist/domain/entity"
	"stock_evaluator/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase はウォッチリストの参照に必要なユースケースです。
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler はウォッチリストに関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は評価対象として有効な銘柄をsort_key順に返します。
//
// エンドポイント例:
// GET /v1/symbols?exchange=NASDAQ
//
// exchange は大文字小文字を区別せずに絞り込みます。DBエラーの詳細はレスポンスに含めません。
func (h *SymbolHandler) List(c *gin.Context) {
	exchange := strings.TrimSpace(c.Query("exchange"))

	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		slog.Error("failed to list watchlist", "exchange", exchange, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list symbols"})
		return
	}

	items := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		if exchange != "" && !strings.EqualFold(s.Exchange, exchange) {
			continue
		}
		items = append(items, dto.SymbolItem{Code: s.Code, Name: s.Name, Exchange: s.Exchange})
	}
	c.JSON(http.StatusOK, items)
}
