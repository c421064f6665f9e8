// Package presenter はEvaluationReportを人間向けの形式に変換します。
package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

// DefaultTokenRate は1トークンあたりの概算費用（USD）です。
var DefaultTokenRate = decimal.RequireFromString("0.00015")

const (
	colorGreen  = "\033[92m"
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorReset  = "\033[0m"
)

// EstimateCost はトークン数を固定レートで金額に換算します。
func EstimateCost(tokens int, rate decimal.Decimal) decimal.Decimal {
	if tokens <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(tokens)).Mul(rate)
}

// SignalColor はシグナルに対応するANSIカラーコードを返します。未知のシグナルは空文字です。
func SignalColor(s entity.Signal) string {
	switch s {
	case entity.SignalBuy:
		return colorGreen
	case entity.SignalSell, entity.SignalError:
		return colorRed
	case entity.SignalHold:
		return colorYellow
	default:
		return ""
	}
}

// Printer はレポートをテキストで書き出します。
type Printer struct {
	w     io.Writer
	rate  decimal.Decimal
	color bool
}

// NewPrinter は新しい Printer を生成します。color が false の場合はエスケープシーケンスを出力しません。
func NewPrinter(w io.Writer, rate decimal.Decimal, color bool) *Printer {
	return &Printer{w: w, rate: rate, color: color}
}

// Print は1件のレポートを書き出します。
func (p *Printer) Print(r *entity.EvaluationReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nANALYSIS REPORT: %s\n", r.Symbol)
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for _, a := range r.Assessments {
		fmt.Fprintf(&b, "\n%s\n", a.Evaluator)
		b.WriteString(strings.Repeat("-", 30) + "\n")
		b.WriteString(strings.TrimSpace(a.Analysis) + "\n")
	}

	b.WriteString("\nFINAL RECOMMENDATION\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	signal := string(r.Decision.Signal)
	if c := SignalColor(r.Decision.Signal); p.color && c != "" {
		signal = c + signal + colorReset
	}
	fmt.Fprintf(&b, "Signal: %s\n", signal)
	fmt.Fprintf(&b, "Rationale: %s\n", r.Decision.Rationale)

	fmt.Fprintf(&b, "\nAnalysis Cost: $%s (%d tokens)\n", EstimateCost(r.TotalTokens, p.rate).StringFixed(2), r.TotalTokens)

	_, err := io.WriteString(p.w, b.String())
	return err
}
