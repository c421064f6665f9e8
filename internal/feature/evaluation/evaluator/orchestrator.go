package evaluator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

// Assessor は FeatureSet を評価して Assessment を返す処理です。
// 実装は失敗を Assessment に吸収し、パニック以外で処理を中断してはいけません。
type Assessor interface {
	Name() string
	Evaluate(ctx context.Context, fs entity.FeatureSet) entity.Assessment
}

var _ Assessor = (*Evaluator)(nil)

// Orchestrator は登録された評価エージェントを同じ FeatureSet に対して並行実行します。
type Orchestrator struct {
	assessors []Assessor
}

// NewOrchestrator は登録順を保持した Orchestrator を生成します。
func NewOrchestrator(assessors ...Assessor) *Orchestrator {
	return &Orchestrator{assessors: assessors}
}

// Len は登録されている評価エージェントの数を返します。
func (o *Orchestrator) Len() int {
	return len(o.assessors)
}

// Run はすべての評価エージェントを並行に実行し、全件の完了を待ってから結果を返します。
// 結果の順序は完了順ではなく登録順です。途中で打ち切ることはありません。
func (o *Orchestrator) Run(ctx context.Context, fs entity.FeatureSet) []entity.Assessment {
	out := make([]entity.Assessment, len(o.assessors))

	var g errgroup.Group
	for i, a := range o.assessors {
		g.Go(func() error {
			// 各goroutineは自分のインデックスにのみ書き込む
			out[i] = a.Evaluate(ctx, fs)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
