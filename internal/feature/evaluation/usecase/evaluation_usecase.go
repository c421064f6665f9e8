// Package usecase は1銘柄の評価パイプライン（取得→指標計算→並行評価→判断生成）を実装します。
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	candleentity "stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
	"stock_evaluator/internal/feature/evaluation/indicator"
)

const (
	// DefaultReferenceSymbol は相対強度の比較に使う参照指数です。
	DefaultReferenceSymbol = "SPY"
	// TrailingObservations は取得する日足の本数（約1年）です。
	TrailingObservations = 252
	// SeriesInterval は取得する系列の時間足です。
	SeriesInterval = "1day"
)

// リクエスト結果のラベルです。
const (
	OutcomeReported  = "reported"
	OutcomeDataError = "data_error"
	OutcomeAbandoned = "abandoned"
)

// Orchestrator は全評価エージェントを並行実行し、登録順の結果を返します。
type Orchestrator interface {
	Run(ctx context.Context, fs entity.FeatureSet) []entity.Assessment
}

// Synthesizer は評価結果から最終判断を生成します。
type Synthesizer interface {
	Synthesize(ctx context.Context, assessments []entity.Assessment) entity.Decision
}

// Recorder はパイプラインの計測値を受け取ります。
type Recorder interface {
	RecordEvaluation(outcome string)
	RecordAssessment(evaluator string, failed bool)
	RecordDecision(signal string)
	RecordTokens(stage string, n int)
	ObserveStage(stage string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvaluation(string)            {}
func (nopRecorder) RecordAssessment(string, bool)      {}
func (nopRecorder) RecordDecision(string)              {}
func (nopRecorder) RecordTokens(string, int)           {}
func (nopRecorder) ObserveStage(string, time.Duration) {}

// EvaluationUsecase は1銘柄の評価リクエストを処理します。
type EvaluationUsecase struct {
	series    repository.SeriesRepository
	metadata  repository.MetadataRepository
	orch      Orchestrator
	synth     Synthesizer
	reference string
	metrics   Recorder
	now       func() time.Time
	newID     func() string
}

// NewEvaluationUsecase は新しい EvaluationUsecase を生成します。
// reference が空なら DefaultReferenceSymbol、rec が nil なら計測なしになります。
func NewEvaluationUsecase(
	series repository.SeriesRepository,
	metadata repository.MetadataRepository,
	orch Orchestrator,
	synth Synthesizer,
	reference string,
	rec Recorder,
) *EvaluationUsecase {
	if reference == "" {
		reference = DefaultReferenceSymbol
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &EvaluationUsecase{
		series:    series,
		metadata:  metadata,
		orch:      orch,
		synth:     synth,
		reference: strings.ToUpper(reference),
		metrics:   rec,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ReferenceSymbol は比較に使う参照指数のシンボルを返します。
func (u *EvaluationUsecase) ReferenceSymbol() string {
	return u.reference
}

// Evaluate は symbol を評価してレポートを返します。
//
// 市場データの取得または指標計算に失敗した場合は *domain.DataError を返し、生成バックエンドは呼び出しません。
// 評価エージェントや判断生成の失敗はレポート内に記録され、エラーにはなりません。
// ctx が先に終了した場合は ctx.Err() を直ちに返します。実行中の生成呼び出しは呼び出し元のキャンセルから
// 切り離されており、各呼び出しのタイムアウトまで走ってから結果は破棄されます。
func (u *EvaluationUsecase) Evaluate(ctx context.Context, symbol string) (*entity.EvaluationReport, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrEmptySymbol
	}

	fs, err := u.features(ctx, symbol)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			u.metrics.RecordEvaluation(OutcomeAbandoned)
			return nil, ctxErr
		}
		u.metrics.RecordEvaluation(OutcomeDataError)
		slog.Error("evaluation aborted", "symbol", symbol, "error", err)
		return nil, err
	}

	done := make(chan *entity.EvaluationReport, 1)
	go func() {
		done <- u.assess(context.WithoutCancel(ctx), fs)
	}()

	select {
	case report := <-done:
		u.metrics.RecordEvaluation(OutcomeReported)
		return report, nil
	case <-ctx.Done():
		u.metrics.RecordEvaluation(OutcomeAbandoned)
		slog.Warn("evaluation abandoned by caller", "symbol", symbol, "error", ctx.Err())
		return nil, ctx.Err()
	}
}

// features は対象銘柄・参照指数・メタデータを並行取得し、FeatureSet を計算します。
// メタデータの取得失敗は致命的ではなく、該当項目が欠損として扱われます。
func (u *EvaluationUsecase) features(ctx context.Context, symbol string) (entity.FeatureSet, error) {
	start := u.now()

	var (
		series    []candleentity.Candle
		reference []candleentity.Candle
		meta      entity.Metadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cs, err := u.series.GetTimeSeries(gctx, symbol, SeriesInterval, TrailingObservations)
		if err != nil {
			return &domain.DataError{Symbol: symbol, Stage: "series", Err: err}
		}
		series = cs
		return nil
	})
	g.Go(func() error {
		cs, err := u.series.GetTimeSeries(gctx, u.reference, SeriesInterval, TrailingObservations)
		if err != nil {
			return &domain.DataError{Symbol: symbol, Stage: "reference", Err: err}
		}
		reference = cs
		return nil
	})
	g.Go(func() error {
		m, err := u.metadata.GetMetadata(gctx, symbol)
		if err != nil {
			slog.Warn("metadata unavailable, continuing without fundamentals", "symbol", symbol, "error", err)
			return nil
		}
		meta = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.FeatureSet{}, err
	}
	u.metrics.ObserveStage("fetch", u.now().Sub(start))

	start = u.now()
	fs, err := indicator.Compute(symbol, series, reference, meta)
	if err != nil {
		return entity.FeatureSet{}, err
	}
	u.metrics.ObserveStage("compute", u.now().Sub(start))
	return fs, nil
}

// assess は評価エージェントと判断生成を実行してレポートを組み立てます。失敗は全てレポート内に吸収されます。
func (u *EvaluationUsecase) assess(ctx context.Context, fs entity.FeatureSet) *entity.EvaluationReport {
	start := u.now()
	assessments := u.orch.Run(ctx, fs)
	u.metrics.ObserveStage("evaluate", u.now().Sub(start))

	evaluateTokens := 0
	for _, a := range assessments {
		u.metrics.RecordAssessment(a.Evaluator, a.Failed)
		evaluateTokens += a.Tokens
	}
	u.metrics.RecordTokens("evaluate", evaluateTokens)

	start = u.now()
	decision := u.synth.Synthesize(ctx, assessments)
	u.metrics.ObserveStage("synthesize", u.now().Sub(start))
	u.metrics.RecordDecision(string(decision.Signal))
	u.metrics.RecordTokens("synthesize", decision.Tokens)
	if decision.Signal == entity.SignalError {
		slog.Warn("decision synthesis degraded", "symbol", fs.Symbol, "error", decision.Rationale)
	}

	report := &entity.EvaluationReport{
		ID:          u.newID(),
		Symbol:      fs.Symbol,
		Features:    fs,
		Assessments: assessments,
		Decision:    decision,
		TotalTokens: entity.TotalTokens(assessments, decision),
		GeneratedAt: u.now().UTC(),
	}
	slog.Info("evaluation reported", "symbol", report.Symbol, "id", report.ID, "signal", decision.Signal, "tokens", report.TotalTokens)
	return report
}
