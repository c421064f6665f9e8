// Package metrics はPrometheusによる評価パイプラインの計測を提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock_evaluator"

// Recorder は評価パイプラインのメトリクスを専用のレジストリに記録します。
type Recorder struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	assessments *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	tokens      *prometheus.CounterVec
	stages      *prometheus.HistogramVec
}

// New は新しいレジストリにメトリクスを登録した Recorder を返します。
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Evaluation requests by outcome (reported, data_error, abandoned).",
		}, []string{"outcome"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Evaluator assessments by evaluator and status (ok, failed).",
		}, []string{"evaluator", "status"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Synthesized decisions by signal.",
		}, []string{"signal"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Generation tokens consumed by pipeline stage.",
		}, []string{"stage"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}
	reg.MustRegister(
		r.evaluations, r.assessments, r.decisions, r.tokens, r.stages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordEvaluation は1リクエストの結果を記録します。
func (r *Recorder) RecordEvaluation(outcome string) {
	r.evaluations.WithLabelValues(outcome).Inc()
}

// RecordAssessment は評価者ごとの成否を記録します。
func (r *Recorder) RecordAssessment(evaluator string, failed bool) {
	status := "ok"
	if failed {
		status = "failed"
	}
	r.assessments.WithLabelValues(evaluator, status).Inc()
}

// RecordDecision は最終シグナルを記録します。
func (r *Recorder) RecordDecision(signal string) {
	r.decisions.WithLabelValues(signal).Inc()
}

// RecordTokens は消費トークン数を加算します。
func (r *Recorder) RecordTokens(stage string, n int) {
	if n <= 0 {
		return
	}
	r.tokens.WithLabelValues(stage).Add(float64(n))
}

// ObserveStage はステージの所要時間を記録します。
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stages.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler は /metrics 用のHTTPハンドラーを返します。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry はテストや追加コレクタ登録のためにレジストリを返します。
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
