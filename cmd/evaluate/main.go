package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock_evaluator/internal/app/config"
	"stock_evaluator/internal/app/di"
	"stock_evaluator/internal/feature/evaluation/transport/presenter"
	"stock_evaluator/internal/platform/externalapi/twelvedata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		symbol  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:          "evaluate",
		Short:        "Evaluate stocks with technical, fundamental and market-context analysts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .envを読み込む
			if err := godotenv.Load(".env"); err != nil {
				slog.Debug(".env not found; using system environment variables")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			slog.SetDefault(config.NewLogger(cfg.Logging, os.Stderr))

			ctx := cmd.Context()
			infra, err := di.OpenInfra(ctx)
			if err != nil {
				return err
			}
			defer infra.Close()

			mdCfg := twelvedata.LoadConfig()
			market := di.NewMarket(mdCfg, di.NewMarketLimiter(mdCfg))
			uc, err := di.NewEvaluationUsecase(ctx, cfg, infra, di.NewSeriesSource(infra, market), market, nil)
			if err != nil {
				return err
			}

			s := &session{
				uc:         uc,
				printer:    presenter.NewPrinter(cmd.OutOrStdout(), cfg.CostPerToken, !noColor),
				out:        cmd.OutOrStdout(),
				requestCtx: interruptible(cfg.RequestTimeout),
			}
			if symbol != "" {
				return s.evaluate(ctx, symbol)
			}
			return s.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "evaluate a single symbol and exit")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored signal output")
	return cmd
}

// interruptible は Ctrl-C または timeout で終了するリクエスト用コンテキストを返します。
// リクエスト間の Ctrl-C は通常どおりプロセスを終了させます。
func interruptible(timeout time.Duration) func(context.Context) (context.Context, context.CancelFunc) {
	return func(parent context.Context) (context.Context, context.CancelFunc) {
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		ctx, cancel := context.WithTimeout(ctx, timeout)
		return ctx, func() {
			cancel()
			stop()
		}
	}
}
