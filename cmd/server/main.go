package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock_evaluator/internal/app/config"
	"stock_evaluator/internal/app/di"
	"stock_evaluator/internal/app/router"
	candleshandler "stock_evaluator/internal/feature/candles/transport/handler"
	candlesusecase "stock_evaluator/internal/feature/candles/usecase"
	evaluationhandler "stock_evaluator/internal/feature/evaluation/transport/handler"
	symbollistadapters "stock_evaluator/internal/feature/symbollist/adapters"
	symbollisthandler "stock_evaluator/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_evaluator/internal/feature/symbollist/usecase"
	"stock_evaluator/internal/platform/externalapi/twelvedata"
	"stock_evaluator/internal/platform/http/handler"
	"stock_evaluator/internal/platform/metrics"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Logging, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := di.OpenInfra(ctx)
	if err != nil {
		slog.Error("failed to open infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	// Repository
	mdCfg := twelvedata.LoadConfig()
	market := di.NewMarket(mdCfg, di.NewMarketLimiter(mdCfg))
	series := di.NewSeriesSource(infra, market)

	// Usecase
	rec := metrics.New()
	evaluationUC, err := di.NewEvaluationUsecase(ctx, cfg, infra, series, market, rec)
	if err != nil {
		slog.Error("failed to build evaluation pipeline", "error", err)
		os.Exit(1)
	}

	// Handler
	handlers := router.Handlers{
		Evaluation:     evaluationhandler.NewEvaluationHandler(evaluationUC, cfg.CostPerToken),
		Candles:        candleshandler.NewCandlesHandler(candlesusecase.NewCandlesUsecase(series)),
		Metrics:        rec.Handler(),
		RequestTimeout: cfg.RequestTimeout,
		AuthSecret:     cfg.JWTSecret,
	}
	if infra.DB != nil {
		symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(infra.DB))
		handlers.Symbols = symbollisthandler.NewSymbolHandler(symbolUC)
		handlers.Checks = append(handlers.Checks, handler.Check{
			Name: "db",
			Probe: func(ctx context.Context) error {
				sqlDB, err := infra.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		})
	}
	if infra.Redis != nil {
		handlers.Checks = append(handlers.Checks, handler.Check{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return infra.Redis.Ping(ctx).Err() },
		})
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, /v1 accepts unauthenticated requests")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
