// Package entity はevaluationフィーチャーのドメインモデルを定義します。
package entity

import "time"

// FeatureSet は評価時点における1銘柄の指標スナップショットです。
// 値渡しで扱い、生成後に変更しません。
// ウィンドウが埋まらない統計値は nil（JSONでは null）で表し、ゼロで代用しません。
type FeatureSet struct {
	Symbol      string      `json:"symbol"`
	AsOf        time.Time   `json:"as_of"` // 最新ローソク足の時刻
	Technical   Technical   `json:"technical"`
	Fundamental Fundamental `json:"fundamental"`
	Market      Market      `json:"market"`
}

// Technical は同一の直近ウィンドウから算出したテクニカル指標です。
type Technical struct {
	Price         float64  `json:"price"`          // 最新終値
	SMA50         *float64 `json:"sma50"`          // 50期間単純移動平均
	SMA200        *float64 `json:"sma200"`         // 200期間単純移動平均
	RSI           *float64 `json:"rsi"`            // 14期間RSI（0〜100）
	Volume        int64    `json:"volume"`         // 最新出来高
	AvgVolume     float64  `json:"avg_volume"`     // ウィンドウ内の平均出来高
	Volatility    *float64 `json:"volatility"`     // 年率換算ボラティリティ
	DailyChange   *float64 `json:"daily_change"`   // 1期間リターン
	MonthlyChange *float64 `json:"monthly_change"` // 20期間リターン
}

// Fundamental はデータ提供元のメタデータをそのまま渡したファンダメンタル値です。
// 提供元のデータは欠損が多いため、すべて任意項目です。
type Fundamental struct {
	MarketCap     *float64 `json:"market_cap"`
	ForwardPE     *float64 `json:"forward_pe"`
	PriceToBook   *float64 `json:"price_to_book"`
	ProfitMargin  *float64 `json:"profit_margin"`
	RevenueGrowth *float64 `json:"revenue_growth"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
}

// Market は市場環境に関する値です。
type Market struct {
	Beta             *float64 `json:"beta"`
	RelativeStrength *float64 `json:"relative_strength"` // 参照指数に対する累積リターン比
	Sector           string   `json:"sector"`
	Industry         string   `json:"industry"`
}

// Unknown は欠損したテキスト項目に入れる値です。
const Unknown = "unknown"

// Metadata はデータ提供元から取得した銘柄メタデータです。
type Metadata struct {
	MarketCap     *float64 `json:"market_cap,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	ProfitMargin  *float64 `json:"profit_margin,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Industry      string   `json:"industry,omitempty"`
}
