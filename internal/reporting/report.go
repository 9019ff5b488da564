package reporting

import "time"

// Report represents the research report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Method      string
	Frequency   string
	AssetCount  int

	// Data Summary
	DataSummary DataSummary

	// Asset Statistics (sorted by symbol)
	AssetStats []AssetStatRow

	// Correlation across assets, row-major with symbols in row order
	Correlation CorrelationSection

	// Portfolios
	MinimumVariance PortfolioRow
	Efficient       PortfolioRow
	Frontier        []FrontierRow
}

// DataSummary contains data description.
type DataSummary struct {
	Securities     int
	Observations   int
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// AssetStatRow represents one row in the asset statistics table.
type AssetStatRow struct {
	Symbol           string
	Observations     int
	Mean             float64
	Stddev           float64
	Min              float64
	P25              float64
	Median           float64
	P75              float64
	Max              float64
	Skewness         float64
	Kurtosis         float64
	MeanAnnualized   float64
	StddevAnnualized float64
}

// CorrelationSection contains the pairwise correlation matrix.
type CorrelationSection struct {
	Symbols []string
	Matrix  [][]float64
}

// PortfolioRow represents a single portfolio with its moments.
type PortfolioRow struct {
	Label      string
	Symbols    []string
	Weights    []float64
	Return     float64
	Volatility float64
}

// FrontierRow is one point on the efficient frontier trace.
type FrontierRow struct {
	Return     float64
	Volatility float64
}
