package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/frontier"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// Analysis carries the portfolio results computed outside the stores.
type Analysis struct {
	Correlation     CorrelationSection
	MinimumVariance *frontier.Portfolio
	Efficient       *frontier.Portfolio
	Frontier        []*frontier.Portfolio
}

// Generator produces reports from stored data.
type Generator struct {
	securityStore storage.SecurityStore
	returnStore   storage.ReturnStore
	statsStore    storage.AssetStatsStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	securityStore storage.SecurityStore,
	returnStore storage.ReturnStore,
	statsStore storage.AssetStatsStore,
) *Generator {
	return &Generator{
		securityStore: securityStore,
		returnStore:   returnStore,
		statsStore:    statsStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete research report for the given method and
// frequency. The analysis holds the portfolio results of the run.
func (g *Generator) Generate(ctx context.Context, method domain.Method, frequency domain.Frequency, analysis *Analysis) (*Report, error) {
	stats, err := g.statsStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := g.generateAssetStats(stats, method, frequency)

	dataSummary, err := g.generateDataSummary(ctx, rows, method, frequency)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		Method:      string(method),
		Frequency:   string(frequency),
		AssetCount:  len(rows),
		DataSummary: *dataSummary,
		AssetStats:  rows,
	}

	if analysis != nil {
		report.Correlation = analysis.Correlation
		report.MinimumVariance = portfolioRow("Minimum Variance", analysis.MinimumVariance)
		report.Efficient = portfolioRow("Efficient", analysis.Efficient)
		for _, p := range analysis.Frontier {
			report.Frontier = append(report.Frontier, FrontierRow{
				Return:     p.Return,
				Volatility: p.Volatility,
			})
		}
	}

	return report, nil
}

// generateAssetStats filters stored summaries to the requested method
// and frequency and builds sorted rows.
func (g *Generator) generateAssetStats(stats []*domain.AssetStats, method domain.Method, frequency domain.Frequency) []AssetStatRow {
	var rows []AssetStatRow
	for _, s := range stats {
		if s.Method != method || s.Frequency != frequency {
			continue
		}
		rows = append(rows, AssetStatRow{
			Symbol:           s.Symbol,
			Observations:     s.Observations,
			Mean:             s.Mean,
			Stddev:           s.Stddev,
			Min:              s.Min,
			P25:              s.P25,
			Median:           s.Median,
			P75:              s.P75,
			Max:              s.Max,
			Skewness:         s.Skewness,
			Kurtosis:         s.Kurtosis,
			MeanAnnualized:   s.MeanAnnualized,
			StddevAnnualized: s.StddevAnnualized,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Symbol < rows[j].Symbol
	})
	return rows
}

// generateDataSummary computes the data summary from the stored return
// series backing the statistics rows.
func (g *Generator) generateDataSummary(ctx context.Context, rows []AssetStatRow, method domain.Method, frequency domain.Frequency) (*DataSummary, error) {
	securities, err := g.securityStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DataSummary{Securities: len(securities)}

	for _, row := range rows {
		series, err := g.returnStore.GetSeries(ctx, row.Symbol, method, frequency)
		if err != nil {
			return nil, err
		}
		summary.Observations += len(series)

		for _, p := range series {
			if summary.DateRangeStart.IsZero() || p.Date.Before(summary.DateRangeStart) {
				summary.DateRangeStart = p.Date
			}
			if p.Date.After(summary.DateRangeEnd) {
				summary.DateRangeEnd = p.Date
			}
		}
	}

	return summary, nil
}

func portfolioRow(label string, p *frontier.Portfolio) PortfolioRow {
	if p == nil {
		return PortfolioRow{Label: label}
	}
	return PortfolioRow{
		Label:      label,
		Symbols:    p.Symbols,
		Weights:    p.Weights,
		Return:     p.Return,
		Volatility: p.Volatility,
	}
}
