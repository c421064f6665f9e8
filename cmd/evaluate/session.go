package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

const (
	prompt        = "\nEnter stock symbol (or 'quit' to exit): "
	invalidSymbol = "Please enter a valid symbol"
)

// errPrint はレポートの出力に失敗したことを示します。評価失敗と違い対話ループを終了させます。
var errPrint = errors.New("failed to print report")

// Evaluator は1銘柄の評価を行います。
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string) (*entity.EvaluationReport, error)
}

// ReportPrinter はレポートを出力します。
type ReportPrinter interface {
	Print(r *entity.EvaluationReport) error
}

// session は対話ループの状態です。1度に1リクエストだけを処理します。
type session struct {
	uc         Evaluator
	printer    ReportPrinter
	out        io.Writer
	requestCtx func(context.Context) (context.Context, context.CancelFunc)
}

// run は quit / q または入力終端まで銘柄を読み取り、評価を繰り返します。
// 1件の評価失敗はループを止めませんが、出力の失敗は返します。
func (s *session) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}

		symbol := strings.ToUpper(strings.TrimSpace(sc.Text()))
		switch symbol {
		case "QUIT", "Q":
			return nil
		case "":
			fmt.Fprintln(s.out, invalidSymbol)
			continue
		}

		// 評価失敗は evaluate 内で表示済み
		if err := s.evaluate(ctx, symbol); errors.Is(err, errPrint) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// evaluate は1銘柄を評価して結果を出力します。
func (s *session) evaluate(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	fmt.Fprintf(s.out, "\nFetching data for %s...\n", symbol)

	reqCtx, cancel := s.requestCtx(ctx)
	defer cancel()

	report, err := s.uc.Evaluate(reqCtx, symbol)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(s.out, "Request abandoned")
		} else {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		return err
	}
	if err := s.printer.Print(report); err != nil {
		return fmt.Errorf("%w: %w", errPrint, err)
	}
	return nil
}
