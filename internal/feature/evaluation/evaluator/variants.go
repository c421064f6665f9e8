package evaluator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

// Technical は価格トレンドとテクニカル指標のみを評価します。
type Technical struct{}

// Fundamental はバリュエーションと財務健全性を評価します。
type Fundamental struct{}

// MarketContext はセクター・ベータ・相対力から市場環境を評価します。
type MarketContext struct{}

var (
	_ Variant = Technical{}
	_ Variant = Fundamental{}
	_ Variant = MarketContext{}
)

// DefaultVariants は登録順の評価観点の一覧を返します。
func DefaultVariants() []Variant {
	return []Variant{Technical{}, Fundamental{}, MarketContext{}}
}

func (Technical) Name() string { return "Technical Analysis" }

func (Technical) Persona() string {
	return "You are a technical analysis expert. Provide concise insights about price trends, momentum, " +
		"and technical indicators. Be specific about support/resistance levels and trend directions."
}

func (Technical) Render(fs entity.FeatureSet) string {
	t := fs.Technical
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze technical indicators for %s:\n\n", fs.Symbol)
	b.WriteString("Price Action:\n")
	fmt.Fprintf(&b, "- Current Price: %s\n", money(&t.Price))
	fmt.Fprintf(&b, "- Daily Change: %s\n", percent(t.DailyChange))
	fmt.Fprintf(&b, "- Monthly Change: %s\n\n", percent(t.MonthlyChange))
	b.WriteString("Technical Indicators:\n")
	fmt.Fprintf(&b, "- 50-day SMA: %s\n", money(t.SMA50))
	fmt.Fprintf(&b, "- 200-day SMA: %s\n", money(t.SMA200))
	fmt.Fprintf(&b, "- RSI (14): %s\n", decimal1(t.RSI))
	fmt.Fprintf(&b, "- Volatility: %s\n\n", percent(t.Volatility))
	b.WriteString("Volume Analysis:\n")
	fmt.Fprintf(&b, "- Current Volume: %s\n", grouped(float64(t.Volume)))
	fmt.Fprintf(&b, "- Average Volume: %s\n\n", grouped(t.AvgVolume))
	b.WriteString("Provide a concise technical analysis focusing on trend direction and key levels.")
	return b.String()
}

func (Fundamental) Name() string { return "Fundamental Analysis" }

func (Fundamental) Persona() string {
	return "You are a fundamental analysis expert. Provide concise insights about company financials, " +
		"valuation, and growth metrics. Compare metrics to industry standards where relevant."
}

func (Fundamental) Render(fs entity.FeatureSet) string {
	f := fs.Fundamental
	m := fs.Market
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze fundamentals for %s:\n\n", fs.Symbol)
	b.WriteString("Valuation Metrics:\n")
	fmt.Fprintf(&b, "- Market Cap: %s\n", groupedMoney(f.MarketCap))
	fmt.Fprintf(&b, "- P/E Ratio: %s\n", decimal2(f.ForwardPE))
	fmt.Fprintf(&b, "- P/B Ratio: %s\n\n", decimal2(f.PriceToBook))
	b.WriteString("Financial Health:\n")
	fmt.Fprintf(&b, "- Profit Margin: %s\n", percent(f.ProfitMargin))
	fmt.Fprintf(&b, "- Revenue Growth: %s\n", percent(f.RevenueGrowth))
	fmt.Fprintf(&b, "- Debt/Equity: %s\n\n", decimal2(f.DebtToEquity))
	b.WriteString("Market Position:\n")
	fmt.Fprintf(&b, "- Sector: %s\n", m.Sector)
	fmt.Fprintf(&b, "- Industry: %s\n", m.Industry)
	fmt.Fprintf(&b, "- Beta: %s\n\n", decimal2(m.Beta))
	b.WriteString("Provide a concise fundamental analysis focusing on valuation and growth prospects.")
	return b.String()
}

func (MarketContext) Name() string { return "Market Analysis" }

func (MarketContext) Persona() string {
	return "You are a market analysis expert. Provide concise insights about market conditions, sector trends, " +
		"and relative performance. Focus on key market dynamics affecting the stock."
}

func (MarketContext) Render(fs entity.FeatureSet) string {
	m := fs.Market
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze market context for %s:\n\n", fs.Symbol)
	b.WriteString("Market Position:\n")
	fmt.Fprintf(&b, "- Sector: %s\n", m.Sector)
	fmt.Fprintf(&b, "- Industry: %s\n", m.Industry)
	fmt.Fprintf(&b, "- Beta: %s\n", decimal2(m.Beta))
	fmt.Fprintf(&b, "- Relative Strength vs Reference Index: %s\n\n", decimal2(m.RelativeStrength))
	b.WriteString("Provide a concise market analysis focusing on sector trends and market positioning.")
	return b.String()
}

// 欠損値はすべて entity.Unknown として出力する

var printer = message.NewPrinter(language.English)

func money(v *float64) string {
	if v == nil {
		return entity.Unknown
	}
	return fmt.Sprintf("$%.2f", *v)
}

func groupedMoney(v *float64) string {
	if v == nil {
		return entity.Unknown
	}
	return "$" + grouped(*v)
}

func grouped(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func percent(v *float64) string {
	if v == nil {
		return entity.Unknown
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func decimal1(v *float64) string {
	if v == nil {
		return entity.Unknown
	}
	return fmt.Sprintf("%.1f", *v)
}

func decimal2(v *float64) string {
	if v == nil {
		return entity.Unknown
	}
	return fmt.Sprintf("%.2f", *v)
}
