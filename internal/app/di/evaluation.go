package di

import (
	"context"
	"fmt"

	"stock_evaluator/internal/app/config"
	candleadapters "stock_evaluator/internal/feature/candles/adapters"
	candleusecase "stock_evaluator/internal/feature/candles/usecase"
	"stock_evaluator/internal/feature/evaluation/adapters/gemini"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
	"stock_evaluator/internal/feature/evaluation/evaluator"
	"stock_evaluator/internal/feature/evaluation/synthesizer"
	"stock_evaluator/internal/feature/evaluation/usecase"
	"stock_evaluator/internal/platform/cache"
	"stock_evaluator/internal/platform/externalapi/twelvedata"
	"stock_evaluator/internal/platform/metrics"
)

var _ usecase.Recorder = (*metrics.Recorder)(nil)

// NewSeriesSource returns the read-through store when a database is available,
// otherwise the provider itself.
func NewSeriesSource(infra Infra, market *twelvedata.TwelveDataMarket) repository.SeriesRepository {
	if infra.DB == nil {
		return market
	}
	return candleusecase.NewStoredSeriesMarket(
		candleadapters.NewCandleRepository(infra.DB), market, candleusecase.DefaultMaxAge)
}

// NewEvaluationUsecase wires the evaluation pipeline. Every evaluator and the
// synthesizer get their own generation client.
func NewEvaluationUsecase(
	ctx context.Context,
	cfg config.Config,
	infra Infra,
	series repository.SeriesRepository,
	market *twelvedata.TwelveDataMarket,
	rec usecase.Recorder,
) (*usecase.EvaluationUsecase, error) {
	opts := evaluator.Options{
		MaxOutputTokens: cfg.EvaluatorMaxTokens,
		CallTimeout:     cfg.EvaluatorTimeout,
	}

	variants := evaluator.DefaultVariants()
	assessors := make([]evaluator.Assessor, 0, len(variants))
	for _, v := range variants {
		gen, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("generator for %s: %w", v.Name(), err)
		}
		assessors = append(assessors, evaluator.NewEvaluator(v, gen, opts))
	}

	synthGen, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("generator for synthesizer: %w", err)
	}

	metadata := cache.NewCachingMetadataRepository(infra.Redis, market, "metadata", cfg.Location())

	return usecase.NewEvaluationUsecase(
		series,
		metadata,
		evaluator.NewOrchestrator(assessors...),
		synthesizer.NewSynthesizer(synthGen, cfg.SynthesisMaxTokens, cfg.SynthesisTimeout),
		cfg.ReferenceSymbol,
		rec,
	), nil
}
