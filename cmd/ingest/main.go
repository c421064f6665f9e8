package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stock_evaluator/internal/app/config"
	"stock_evaluator/internal/app/di"
	candlesadapters "stock_evaluator/internal/feature/candles/adapters"
	candlesusecase "stock_evaluator/internal/feature/candles/usecase"
	symbollistadapters "stock_evaluator/internal/feature/symbollist/adapters"
	symbollistusecase "stock_evaluator/internal/feature/symbollist/usecase"
	"stock_evaluator/internal/platform/externalapi/twelvedata"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.LoadIngest()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Logging, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	infra, err := di.OpenInfra(ctx)
	if err != nil {
		slog.Error("failed to open infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()
	if infra.DB == nil {
		slog.Error("ingest requires a database; set DB_HOST")
		os.Exit(1)
	}

	symbols, err := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(infra.DB)).
		IngestUniverse(ctx, append(cfg.IngestSymbols, cfg.ReferenceSymbol)...)
	if err != nil {
		slog.Error("failed to load symbols", "error", err)
		os.Exit(1)
	}

	// 取り込みジョブ側で1銘柄ごとにリミッタを待つため、クライアントにはリミッタを渡さない
	mdCfg := twelvedata.LoadConfig()
	uc := candlesusecase.NewIngestUsecase(
		di.NewMarket(mdCfg, nil),
		candlesadapters.NewCandleRepository(infra.DB),
		di.NewMarketLimiter(mdCfg),
	)

	slog.Info("ingest started", "symbols", len(symbols))
	if err := uc.IngestAll(ctx, symbols); err != nil {
		slog.Error("ingest aborted", "error", err)
		os.Exit(1)
	}
	slog.Info("ingest ok")
}
