// Package evaluator は FeatureSet を観点別のプロンプトに変換し、生成バックエンドで評価する
// エージェントと、それらを並行実行するオーケストレーターを提供します。
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
)

const (
	// DefaultMaxOutputTokens は1回の評価で生成する最大トークン数です。
	DefaultMaxOutputTokens = 1024
	// DefaultCallTimeout は1回の生成呼び出しのタイムアウトです。
	DefaultCallTimeout = 60 * time.Second
	// FailurePrefix は失敗したAssessmentの本文の接頭辞です。
	FailurePrefix = "Analysis failed: "
)

// Variant は評価の観点ごとに異なる部分（名前・ペルソナ・プロンプト生成）を表します。
type Variant interface {
	// Name は評価エージェントの識別名です。
	Name() string
	// Persona は生成バックエンドに渡すシステム指示です。
	Persona() string
	// Render は FeatureSet から観点別のプロンプトを生成します。
	Render(fs entity.FeatureSet) string
}

// Options は Evaluator の生成呼び出しの設定です。ゼロ値の項目はデフォルト値を使います。
type Options struct {
	MaxOutputTokens int32
	CallTimeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	return o
}

// Evaluator は Variant と専用の生成クライアントを組み合わせた評価エージェントです。
// 生成の失敗は呼び出し元に伝播させず、失敗内容を本文にしたAssessmentとして返します。
type Evaluator struct {
	variant Variant
	gen     repository.Generator
	opts    Options
}

// NewEvaluator は新しい Evaluator を生成します。
func NewEvaluator(v Variant, gen repository.Generator, opts Options) *Evaluator {
	return &Evaluator{variant: v, gen: gen, opts: opts.withDefaults()}
}

// Name は評価エージェントの識別名を返します。
func (e *Evaluator) Name() string {
	return e.variant.Name()
}

// Evaluate は生成バックエンドを1回だけ呼び出し、FeatureSet の評価を返します。
func (e *Evaluator) Evaluate(ctx context.Context, fs entity.FeatureSet) (a entity.Assessment) {
	name := e.variant.Name()

	defer func() {
		if r := recover(); r != nil {
			a = failed(name, &domain.GenerationError{Op: name, Err: fmt.Errorf("panic: %v", r)})
			slog.Error("evaluator panicked", "symbol", fs.Symbol, "evaluator", name, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	res, err := e.gen.Generate(ctx, repository.GenerationRequest{
		SystemPersona:   e.variant.Persona(),
		UserPrompt:      e.variant.Render(fs),
		MaxOutputTokens: e.opts.MaxOutputTokens,
	})
	if err != nil {
		slog.Warn("evaluator degraded", "symbol", fs.Symbol, "evaluator", name, "error", err)
		return failed(name, err)
	}
	if res.Text == "" {
		err := &domain.GenerationError{Op: name, Err: domain.ErrEmptyResponse}
		slog.Warn("evaluator degraded", "symbol", fs.Symbol, "evaluator", name, "error", err)
		return failed(name, err)
	}

	return entity.Assessment{
		Evaluator: name,
		Analysis:  res.Text,
		Tokens:    res.Tokens(),
	}
}

func failed(name string, err error) entity.Assessment {
	return entity.Assessment{
		Evaluator: name,
		Analysis:  FailurePrefix + err.Error(),
		Tokens:    0,
		Failed:    true,
	}
}
