// Package router はHTTPルーティングを組み立てます。
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	candleshandler "stock_evaluator/internal/feature/candles/transport/handler"
	evaluationhandler "stock_evaluator/internal/feature/evaluation/transport/handler"
	symbollisthandler "stock_evaluator/internal/feature/symbollist/transport/handler"
	"stock_evaluator/internal/platform/http/handler"
	jwtmw "stock_evaluator/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー群です。nil のハンドラーはルートを登録しません。
type Handlers struct {
	Evaluation *evaluationhandler.EvaluationHandler
	Candles    *candleshandler.CandlesHandler
	Symbols    *symbollisthandler.SymbolHandler
	Metrics    http.Handler
	Checks     []handler.Check

	// RequestTimeout は /v1 配下の各リクエストの上限時間です。0 の場合は無制限です。
	RequestTimeout time.Duration
	// AuthSecret が空でなければ /v1 配下に JWT 認証を要求します。
	AuthSecret     string
}

// NewRouter はヘルスチェック・メトリクス・/v1 APIを登録したルーターを生成します。
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 導通確認用
	health := handler.Health(h.Checks...)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := r.Group("/v1")
	if h.AuthSecret != "" {
		v1.Use(jwtmw.AuthRequired(h.AuthSecret))
	}
	if h.RequestTimeout > 0 {
		v1.Use(requestTimeout(h.RequestTimeout))
	}
	{
		if h.Evaluation != nil {
			v1.POST("/evaluations", h.Evaluation.Evaluate)
		}
		if h.Candles != nil {
			v1.GET("/candles/:symbol", h.Candles.GetCandlesHandler)
		}
		// ウォッチリストはDB設定時のみ
		if h.Symbols != nil {
			v1.GET("/symbols", h.Symbols.List)
		}
	}

	return r
}

// requestTimeout はリクエストのコンテキストに期限を設定します。
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
