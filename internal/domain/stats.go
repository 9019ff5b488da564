package domain

// AssetStats summarizes the distribution of one return series.
// Corresponds to asset_stats table in ClickHouse, keyed
// (symbol, method, frequency).
type AssetStats struct {
	Symbol    string
	Method    Method
	Frequency Frequency

	// Counts
	Observations int

	// Distribution
	Mean   float64
	Stddev float64 // sample standard deviation (n-1)
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64

	// Shape
	Skewness float64
	Kurtosis float64 // excess kurtosis, 0 for a normal distribution

	// Annualized moments (periods-per-year scaling)
	MeanAnnualized   float64
	StddevAnnualized float64
}
