// Package adjust back-propagates corporate actions into adjusted closes.
package adjust

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

var one = decimal.NewFromInt(1)

// Apply fills the AdjClose of each candle from its raw close, splits and
// cash dividends. Adjustment walks backwards from the newest candle, so
// the newest adjusted close equals its raw close and earlier closes are
// scaled down by the cumulative action factor. The input slice is
// re-sorted by date ascending; candle count and dates are preserved.
func Apply(candles []*domain.Candle, dividends []*domain.Dividend, splits []*domain.Split) []*domain.Candle {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})

	divByDate := make(map[string][]*domain.Dividend, len(dividends))
	for _, d := range dividends {
		key := domain.Day(d.ExDate).Format("2006-01-02")
		divByDate[key] = append(divByDate[key], d)
	}
	splitByDate := make(map[string][]*domain.Split, len(splits))
	for _, s := range splits {
		key := domain.Day(s.Date).Format("2006-01-02")
		splitByDate[key] = append(splitByDate[key], s)
	}

	factor := one
	for i := len(candles) - 1; i >= 0; i-- {
		c := candles[i]

		adj := decimal.NewFromFloat(c.Close).Mul(factor)
		c.AdjClose, _ = adj.Float64()

		// Actions dated on this candle scale every earlier close.
		key := domain.Day(c.Date).Format("2006-01-02")

		for _, s := range splitByDate[key] {
			if s.Numerator <= 0 || s.Denominator <= 0 {
				continue
			}
			factor = factor.Div(s.Factor())
		}

		if i == 0 {
			continue
		}
		prevClose := decimal.NewFromFloat(candles[i-1].Close)
		for _, d := range divByDate[key] {
			if !prevClose.IsPositive() || d.Amount.GreaterThanOrEqual(prevClose) || !d.Amount.IsPositive() {
				continue
			}
			factor = factor.Mul(prevClose.Sub(d.Amount).Div(prevClose))
		}
	}

	return candles
}
