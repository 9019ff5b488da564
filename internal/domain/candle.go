package domain

import "time"

// Candle is one daily OHLCV bar for a symbol.
// Corresponds to candles table in PostgreSQL, keyed (symbol, date).
type Candle struct {
	Symbol   string
	Date     time.Time // trading day, normalized to UTC midnight
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // close corrected for dividends and splits
	Volume   int64
}

// Day normalizes t to UTC midnight so candles from different providers
// key identically.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
