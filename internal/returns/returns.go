// Package returns transforms adjusted price series into return series.
package returns

import (
	"math"
	"sort"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

// Daily computes daily period returns over adjusted closes.
// Candles are sorted by date ascending before differencing. Candles with
// a non-positive adjusted close are dropped, matching the corpus-wide
// convention of handling missing values by row removal.
func Daily(candles []*domain.Candle, method domain.Method) []*domain.ReturnPoint {
	return compute(clean(candles), method, domain.FrequencyDaily)
}

// Monthly resamples candles to the last observation of each calendar
// month and computes month-over-month returns.
func Monthly(candles []*domain.Candle, method domain.Method) []*domain.ReturnPoint {
	return compute(resampleMonthly(clean(candles)), method, domain.FrequencyMonthly)
}

// clean sorts candles by date ascending and drops rows unusable for
// differencing (nil, non-positive adjusted close).
func clean(candles []*domain.Candle) []*domain.Candle {
	var usable []*domain.Candle
	for _, c := range candles {
		if c == nil || c.AdjClose <= 0 {
			continue
		}
		usable = append(usable, c)
	}

	sort.Slice(usable, func(i, j int) bool {
		return usable[i].Date.Before(usable[j].Date)
	})

	return usable
}

// compute differences consecutive adjusted closes.
// Candles must be pre-sorted by date ascending with positive adjusted closes.
func compute(candles []*domain.Candle, method domain.Method, frequency domain.Frequency) []*domain.ReturnPoint {
	if len(candles) < 2 {
		return nil
	}

	points := make([]*domain.ReturnPoint, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		ratio := candles[i].AdjClose / candles[i-1].AdjClose

		var value float64
		switch method {
		case domain.MethodLog:
			value = math.Log(ratio)
		default:
			value = ratio - 1
		}

		points = append(points, &domain.ReturnPoint{
			Symbol:    candles[i].Symbol,
			Date:      candles[i].Date,
			Method:    method,
			Frequency: frequency,
			Value:     value,
		})
	}

	return points
}

// resampleMonthly keeps the last candle of each calendar month.
// Candles must be pre-sorted by date ascending.
func resampleMonthly(candles []*domain.Candle) []*domain.Candle {
	if len(candles) == 0 {
		return nil
	}

	var result []*domain.Candle
	for _, c := range candles {
		if len(result) > 0 && sameMonth(result[len(result)-1].Date, c.Date) {
			result[len(result)-1] = c
			continue
		}
		result = append(result, c)
	}

	return result
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
