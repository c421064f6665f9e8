// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle is one OHLCV observation of a symbol at a given interval.
// Providers return series newest first; consumers must not assume any order.
type Candle struct {
	Symbol   string    `json:"symbol"`   // Ticker symbol (e.g., "AAPL", "SPY")
	Interval string    `json:"interval"` // Sampling interval (e.g., "1day")
	Time     time.Time `json:"time"`     // Start of the observation period
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"` // 0 when the provider reports no volume (indices)
}
