// Package repository はevaluationフィーチャーが外部に要求するインターフェースを定義します。
package repository

import "context"

// GenerationRequest は生成バックエンドへの1回分の入力です。
type GenerationRequest struct {
	SystemPersona   string
	UserPrompt      string
	MaxOutputTokens int32
}

// GenerationResult は生成バックエンドの応答です。
type GenerationResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Tokens は入力と出力のトークン数の合計を返します。
func (r GenerationResult) Tokens() int {
	return r.InputTokens + r.OutputTokens
}

// Generator はプロンプトから自然言語の応答を生成します。
// 失敗は domain.GenerationError として返します。
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}
