// Package dto はevaluationフィーチャーのHTTPリクエスト・レスポンス型を定義します。
package dto

// EvaluationRequest は評価リクエストのDTOです。
type EvaluationRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}
