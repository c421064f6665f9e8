package entity

import "time"

// Signal は最終判断のカテゴリです。
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
	// SignalError は判断の生成に失敗したことを示します。HOLDの代用ではありません。
	SignalError Signal = "ERROR"
)

// Assessment は1つの評価エージェントの結果です。
// 失敗時は Analysis に失敗内容が入り、Tokens は0になります。
type Assessment struct {
	Evaluator string `json:"evaluator"`
	Analysis  string `json:"analysis"`
	Tokens    int    `json:"tokens"`
	Failed    bool   `json:"failed"`
}

// Decision は評価結果を集約した最終判断です。
type Decision struct {
	Signal    Signal `json:"signal"`
	Rationale string `json:"rationale"`
	Tokens    int    `json:"tokens"`
}

// EvaluationReport は1リクエスト分の出力です。永続化はしません。
type EvaluationReport struct {
	ID          string       `json:"id"`
	Symbol      string       `json:"symbol"`
	Features    FeatureSet   `json:"features"`
	Assessments []Assessment `json:"assessments"`
	Decision    Decision     `json:"decision"`
	TotalTokens int          `json:"total_tokens"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// TotalTokens は全Assessmentと Decision のトークン数を合計します。
func TotalTokens(assessments []Assessment, decision Decision) int {
	total := decision.Tokens
	for _, a := range assessments {
		total += a.Tokens
	}
	return total
}
