// Package handler はevaluationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/transport/http/dto"
	"stock_evaluator/internal/feature/evaluation/transport/presenter"
)

// EvaluationUsecase は銘柄評価のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type EvaluationUsecase interface {
	Evaluate(ctx context.Context, symbol string) (*entity.EvaluationReport, error)
}

// EvaluationHandler は銘柄評価のHTTPリクエストを処理します。
type EvaluationHandler struct {
	uc   EvaluationUsecase
	rate decimal.Decimal
}

// NewEvaluationHandler はEvaluationHandlerの新しいインスタンスを生成します。
func NewEvaluationHandler(uc EvaluationUsecase, rate decimal.Decimal) *EvaluationHandler {
	return &EvaluationHandler{uc: uc, rate: rate}
}

// Evaluate は1銘柄を評価してレポートを返します。
//
// エンドポイント: POST /v1/evaluations
// リクエストボディ: {"symbol": "AAPL"}
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.uc.Evaluate(c.Request.Context(), req.Symbol)
	if err != nil {
		var de *domain.DataError
		switch {
		case errors.Is(err, domain.ErrEmptySymbol):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.As(err, &de):
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, context.Canceled):
			// クライアントが切断済みのため応答は届かない
			slog.Info("evaluation request cancelled", "symbol", req.Symbol)
			c.Status(499)
		default:
			slog.Error("failed to evaluate", "symbol", req.Symbol, "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, h.toResponse(report))
}

func (h *EvaluationHandler) toResponse(r *entity.EvaluationReport) dto.EvaluationResponse {
	assessments := make([]dto.AssessmentResponse, 0, len(r.Assessments))
	for _, a := range r.Assessments {
		assessments = append(assessments, dto.AssessmentResponse{
			Evaluator: a.Evaluator,
			Analysis:  a.Analysis,
			Tokens:    a.Tokens,
			Failed:    a.Failed,
		})
	}
	return dto.EvaluationResponse{
		ID:          r.ID,
		Symbol:      r.Symbol,
		Features:    r.Features,
		Assessments: assessments,
		Decision: dto.DecisionResponse{
			Signal:    string(r.Decision.Signal),
			Rationale: r.Decision.Rationale,
			Tokens:    r.Decision.Tokens,
		},
		TotalTokens:      r.TotalTokens,
		EstimatedCostUSD: presenter.EstimateCost(r.TotalTokens, h.rate),
		GeneratedAt:      r.GeneratedAt,
	}
}
