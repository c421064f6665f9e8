package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

// AssessmentResponse は1つの評価エージェントの結果です。
type AssessmentResponse struct {
	Evaluator string `json:"evaluator"`
	Analysis  string `json:"analysis"`
	Tokens    int    `json:"tokens"`
	Failed    bool   `json:"failed"`
}

// DecisionResponse は最終判断です。
type DecisionResponse struct {
	Signal    string `json:"signal"`
	Rationale string `json:"rationale"`
	Tokens    int    `json:"tokens"`
}

// EvaluationResponse は評価レポートのレスポンスDTOです。
type EvaluationResponse struct {
	ID               string               `json:"id"`
	Symbol           string               `json:"symbol"`
	Features         entity.FeatureSet    `json:"features"`
	Assessments      []AssessmentResponse `json:"assessments"`
	Decision         DecisionResponse     `json:"decision"`
	TotalTokens      int                  `json:"total_tokens"`
	EstimatedCostUSD decimal.Decimal      `json:"estimated_cost_usd"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
