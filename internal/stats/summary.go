// Package stats computes summary statistics over return series.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

// ErrNotEnoughObservations indicates a series too short to summarize.
var ErrNotEnoughObservations = errors.New("not enough observations")

// Summarize computes the descriptive statistics of a single return series.
// The series must hold at least two observations so that the sample
// standard deviation is defined.
func Summarize(symbol string, method domain.Method, frequency domain.Frequency, values []float64) (*domain.AssetStats, error) {
	if len(values) < 2 {
		return nil, ErrNotEnoughObservations
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stat.Mean(values, nil)
	stddev := math.Sqrt(stat.Variance(values, nil))
	periods := frequency.PeriodsPerYear()

	return &domain.AssetStats{
		Symbol:           symbol,
		Method:           method,
		Frequency:        frequency,
		Observations:     len(values),
		Mean:             mean,
		Stddev:           stddev,
		Min:              sorted[0],
		P25:              percentile(sorted, 25),
		Median:           percentile(sorted, 50),
		P75:              percentile(sorted, 75),
		Max:              sorted[len(sorted)-1],
		Skewness:         stat.Skew(values, nil),
		Kurtosis:         stat.ExKurtosis(values, nil),
		MeanAnnualized:   mean * periods,
		StddevAnnualized: stddev * math.Sqrt(periods),
	}, nil
}

// percentile computes the given percentile over a sorted series using
// linear interpolation between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
