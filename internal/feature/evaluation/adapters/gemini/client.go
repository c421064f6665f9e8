// Package gemini はGoogle Gemini APIを使用した生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// ErrMissingAPIKey はAPIキーが設定されていないことを示します。
var ErrMissingAPIKey = errors.New("gemini api key is required")

// Generator はGoogle Gemini APIを使用してテキストを生成します。
// 評価エージェントごとに1インスタンスを生成し、クライアントは共有しません。
type Generator struct {
	client *genai.Client
	model  string
}

// GeneratorがGeneratorインターフェースを実装していることをコンパイル時に検証します。
var _ repository.Generator = (*Generator)(nil)

// NewGenerator はAPIキーを使用してGeneratorの新しいインスタンスを生成します。
// model が空の場合は DefaultModel を使用します。
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// Model は使用するモデル名を返します。
func (g *Generator) Model() string {
	return g.model
}

// Generate はペルソナとプロンプトから応答を生成します。
func (g *Generator) Generate(ctx context.Context, req repository.GenerationRequest) (repository.GenerationResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), contentConfig(req))
	if err != nil {
		return repository.GenerationResult{}, &domain.GenerationError{Op: "gemini", Err: err}
	}
	return toResult(resp), nil
}

// contentConfig はリクエストから生成設定を組み立てます。
// 思考トークンは MaxOutputTokens を消費するため、思考予算は0に固定します。
func contentConfig(req repository.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	if req.SystemPersona != "" {
		// NewContentFromText は空ロールを user に置き換えるため Content を直接組み立てる
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.SystemPersona)}}
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}
	return cfg
}

// toResult は応答本文とトークン使用量を取り出します。使用量が無い場合は0になります。
// 思考トークンは出力トークンとして課金されるため OutputTokens に含めます。
func toResult(resp *genai.GenerateContentResponse) repository.GenerationResult {
	if resp == nil {
		return repository.GenerationResult{}
	}
	out := repository.GenerationResult{Text: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount) + int(u.ThoughtsTokenCount)
	}
	return out
}
