// Package synthesizer は複数のAssessmentを1つの売買判断に集約します。
package synthesizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
)

const (
	// DefaultMaxOutputTokens は判断生成の最大トークン数です。
	DefaultMaxOutputTokens = 150
	// DefaultCallTimeout は判断生成呼び出しのタイムアウトです。
	DefaultCallTimeout = 60 * time.Second

	// Persona は判断生成のシステム指示です。
	Persona = "You are a decisive financial advisor. Always start with BUY, HOLD, or SELL."

	promptTemplate = `Based on the following analyses, provide a clear BUY, HOLD, or SELL recommendation.
Start with exactly one of these words: BUY, HOLD, or SELL.
Then provide a concise explanation of your recommendation.

%s`
)

// Synthesizer は生成バックエンドを1回呼び出して最終判断を生成します。
type Synthesizer struct {
	gen             repository.Generator
	maxOutputTokens int32
	timeout         time.Duration
}

// NewSynthesizer は新しい Synthesizer を生成します。ゼロ値の引数はデフォルト値を使います。
func NewSynthesizer(gen repository.Generator, maxOutputTokens int32, timeout time.Duration) *Synthesizer {
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Synthesizer{gen: gen, maxOutputTokens: maxOutputTokens, timeout: timeout}
}

// Synthesize はAssessmentの一覧から判断を生成します。
// 呼び出しに失敗した場合は SignalError の Decision を返し、再試行はしません。
func (s *Synthesizer) Synthesize(ctx context.Context, assessments []entity.Assessment) (d entity.Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = errorDecision(&domain.GenerationError{Op: "synthesize", Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.gen.Generate(ctx, repository.GenerationRequest{
		SystemPersona:   Persona,
		UserPrompt:      BuildPrompt(assessments),
		MaxOutputTokens: s.maxOutputTokens,
	})
	if err != nil {
		slog.Warn("decision synthesis failed", "error", err)
		return errorDecision(err)
	}
	if strings.TrimSpace(res.Text) == "" {
		err := &domain.GenerationError{Op: "synthesize", Err: domain.ErrEmptyResponse}
		slog.Warn("decision synthesis failed", "error", err)
		return errorDecision(err)
	}

	signal, rationale := ExtractSignal(res.Text)
	return entity.Decision{
		Signal:    signal,
		Rationale: rationale,
		Tokens:    res.Tokens(),
	}
}

// Combine は各Assessmentを "名前:\n本文" の形にし、空行で区切って連結します。
func Combine(assessments []entity.Assessment) string {
	parts := make([]string, 0, len(assessments))
	for _, a := range assessments {
		parts = append(parts, a.Evaluator+":\n"+a.Analysis)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt は判断生成に渡すプロンプトを組み立てます。
func BuildPrompt(assessments []entity.Assessment) string {
	return fmt.Sprintf(promptTemplate, Combine(assessments))
}

// ExtractSignal は応答本文から売買シグナルと根拠を取り出します。
//
// 大文字小文字を区別せず "BUY"、次に "SELL" を探し、どちらもなければ HOLD とします。
// 両方を含む応答は BUY になります（判定順による偏りで、元の挙動をそのまま保持しています）。
// 根拠は、選ばれたシグナル文字列の最初の出現を1回だけ取り除いて前後の空白を削ったものです。
func ExtractSignal(text string) (entity.Signal, string) {
	upper := strings.ToUpper(text)

	signal := entity.SignalHold
	switch {
	case strings.Contains(upper, string(entity.SignalBuy)):
		signal = entity.SignalBuy
	case strings.Contains(upper, string(entity.SignalSell)):
		signal = entity.SignalSell
	}

	rationale := strings.TrimSpace(strings.Replace(text, string(signal), "", 1))
	return signal, rationale
}

func errorDecision(err error) entity.Decision {
	return entity.Decision{
		Signal:    entity.SignalError,
		Rationale: err.Error(),
		Tokens:    0,
	}
}
