// Package indicator は価格系列から評価用の指標（FeatureSet）を算出します。
package indicator

import (
	"math"
	"sort"
	"time"

	candleentity "stock_evaluator/internal/feature/candles/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain"
	"stock_evaluator/internal/feature/evaluation/domain/entity"
)

const (
	// ShortWindow は短期移動平均の期間です。
	ShortWindow = 50
	// LongWindow は長期移動平均の期間です。
	LongWindow = 200
	// RSIPeriod はRSIの期間です。
	RSIPeriod = 14
	// MonthlyPeriod は月間リターンの期間（営業日）です。
	MonthlyPeriod = 20
	// TradingDaysPerYear は年率換算に使う年間営業日数です。
	TradingDaysPerYear = 252
)

// Compute は銘柄と参照指数の系列、メタデータから FeatureSet を算出します。
// 系列はどの順序で渡してもよく、内部で時刻の昇順に並べ替えたコピーを使います。
// 相対力は参照指数を銘柄系列の期間に揃えてから算出します。
func Compute(symbol string, series, reference []candleentity.Candle, meta entity.Metadata) (entity.FeatureSet, error) {
	if len(series) == 0 {
		return entity.FeatureSet{}, &domain.DataError{Symbol: symbol, Stage: "series", Err: domain.ErrNoSeries}
	}
	if len(reference) == 0 {
		return entity.FeatureSet{}, &domain.DataError{Symbol: symbol, Stage: "reference", Err: domain.ErrNoSeries}
	}

	cs := ascending(series)
	closes := closesOf(cs)
	last := cs[len(cs)-1]

	tech := entity.Technical{
		Price:         last.Close,
		SMA50:         SMA(closes, ShortWindow),
		SMA200:        SMA(closes, LongWindow),
		RSI:           RSI(closes, RSIPeriod),
		Volume:        last.Volume,
		AvgVolume:     averageVolume(cs),
		Volatility:    Volatility(closes, TradingDaysPerYear),
		DailyChange:   PeriodReturn(closes, 1),
		MonthlyChange: PeriodReturn(closes, MonthlyPeriod),
	}

	return entity.FeatureSet{
		Symbol:    symbol,
		AsOf:      last.Time,
		Technical: tech,
		Fundamental: entity.Fundamental{
			MarketCap:     meta.MarketCap,
			ForwardPE:     meta.ForwardPE,
			PriceToBook:   meta.PriceToBook,
			ProfitMargin:  meta.ProfitMargin,
			RevenueGrowth: meta.RevenueGrowth,
			DebtToEquity:  meta.DebtToEquity,
		},
		Market: entity.Market{
			Beta:             meta.Beta,
			RelativeStrength: RelativeStrength(closes, closesOf(within(ascending(reference), cs[0].Time, last.Time))),
			Sector:           orUnknown(meta.Sector),
			Industry:         orUnknown(meta.Industry),
		},
	}, nil
}

// SMA は直近 period 件の単純移動平均を返します。件数が足りない場合は nil です。
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return ptr(sum / float64(period))
}

// RSI は直近 period 件の価格変化から相対力指数を返します。
// period+1 件の終値が必要です。下落幅の平均が0の場合は100に飽和させます。
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return ptr(100)
	}
	rs := avgGain / avgLoss
	return ptr(100 - 100/(1+rs))
}

// Volatility は1期間リターンの標本標準偏差を periodsPerYear で年率換算した値を返します。
// リターンが2件未満の場合は nil です。
func Volatility(closes []float64, periodsPerYear int) *float64 {
	rets := returns(closes)
	if len(rets) < 2 {
		return nil
	}
	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(rets)-1))
	return ptr(std * math.Sqrt(float64(periodsPerYear)))
}

// PeriodReturn は最新終値と n 期間前の終値の変化率を返します。
func PeriodReturn(closes []float64, n int) *float64 {
	if n <= 0 || len(closes) < n+1 {
		return nil
	}
	base := closes[len(closes)-1-n]
	if base == 0 {
		return nil
	}
	return ptr(closes[len(closes)-1]/base - 1)
}

// RelativeStrength は銘柄と参照指数の累積リターン（最終/最初）の比を返します。
func RelativeStrength(closes, reference []float64) *float64 {
	stock := cumulative(closes)
	market := cumulative(reference)
	if stock == nil || market == nil || *market == 0 {
		return nil
	}
	return ptr(*stock / *market)
}

func cumulative(closes []float64) *float64 {
	if len(closes) == 0 || closes[0] == 0 {
		return nil
	}
	return ptr(closes[len(closes)-1] / closes[0])
}

// returns は隣接する終値の変化率を返します。前の終値が0の区間は除外します。
func returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

func averageVolume(cs []candleentity.Candle) float64 {
	var sum float64
	for _, c := range cs {
		sum += float64(c.Volume)
	}
	return sum / float64(len(cs))
}

func ascending(cs []candleentity.Candle) []candleentity.Candle {
	out := make([]candleentity.Candle, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// within は昇順の系列から [from, to] に収まる足だけを返します。
func within(cs []candleentity.Candle, from, to time.Time) []candleentity.Candle {
	lo := sort.Search(len(cs), func(i int) bool { return !cs[i].Time.Before(from) })
	hi := sort.Search(len(cs), func(i int) bool { return cs[i].Time.After(to) })
	return cs[lo:hi]
}

func closesOf(cs []candleentity.Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return entity.Unknown
	}
	return s
}

func ptr(v float64) *float64 { return &v }
