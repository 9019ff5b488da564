package domain

import "time"

// Method selects how period returns are computed from prices.
type Method string

const (
	// MethodSimple computes r_t = p_t/p_{t-1} - 1.
	MethodSimple Method = "simple"
	// MethodLog computes r_t = ln(p_t/p_{t-1}).
	MethodLog Method = "log"
)

// Frequency is the sampling frequency of a return series.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyMonthly Frequency = "monthly"
)

// Annualization factors by frequency.
const (
	TradingDaysPerYear = 252
	MonthsPerYear      = 12
)

// PeriodsPerYear returns the annualization factor for the frequency.
func (f Frequency) PeriodsPerYear() float64 {
	switch f {
	case FrequencyMonthly:
		return MonthsPerYear
	default:
		return TradingDaysPerYear
	}
}

// ReturnPoint is one observation of a return series.
// Corresponds to returns table in ClickHouse, keyed
// (symbol, date, method, frequency).
type ReturnPoint struct {
	Symbol    string
	Date      time.Time
	Method    Method
	Frequency Frequency
	Value     float64
}
