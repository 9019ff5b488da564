package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Research Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Method: %s | Frequency: %s | Assets: %d\n\n", r.Method, r.Frequency, r.AssetCount))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Securities | %d |\n", r.DataSummary.Securities))
	sb.WriteString(fmt.Sprintf("| Return Observations | %d |\n", r.DataSummary.Observations))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n", r.DataSummary.DateRangeStart.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n", r.DataSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Asset Statistics
	sb.WriteString("## Asset Statistics\n\n")
	if len(r.AssetStats) > 0 {
		sb.WriteString("| Symbol | Obs | Mean | Stddev | Min | P25 | Median | P75 | Max | Skew | Kurt | Mean p.a. | Stddev p.a. |\n")
		sb.WriteString("|--------|-----|------|--------|-----|-----|--------|-----|-----|------|------|-----------|-------------|\n")
		for _, s := range r.AssetStats {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				s.Symbol, s.Observations, s.Mean, s.Stddev,
				s.Min, s.P25, s.Median, s.P75, s.Max,
				s.Skewness, s.Kurtosis, s.MeanAnnualized, s.StddevAnnualized))
		}
	} else {
		sb.WriteString("No asset statistics available.\n")
	}
	sb.WriteString("\n")

	// Correlation
	sb.WriteString("## Correlation\n\n")
	if len(r.Correlation.Symbols) > 0 {
		sb.WriteString("| |")
		for _, symbol := range r.Correlation.Symbols {
			sb.WriteString(fmt.Sprintf(" %s |", symbol))
		}
		sb.WriteString("\n|---|")
		for range r.Correlation.Symbols {
			sb.WriteString("---|")
		}
		sb.WriteString("\n")
		for i, symbol := range r.Correlation.Symbols {
			sb.WriteString(fmt.Sprintf("| %s |", symbol))
			for j := range r.Correlation.Symbols {
				sb.WriteString(fmt.Sprintf(" %.4f |", r.Correlation.Matrix[i][j]))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No correlation data available.\n")
	}
	sb.WriteString("\n")

	// Portfolios
	sb.WriteString("## Portfolios\n\n")
	writePortfolio(&sb, r.MinimumVariance)
	writePortfolio(&sb, r.Efficient)

	// Frontier
	sb.WriteString("## Efficient Frontier\n\n")
	if len(r.Frontier) > 0 {
		sb.WriteString("| Volatility | Return |\n")
		sb.WriteString("|------------|--------|\n")
		for _, p := range r.Frontier {
			sb.WriteString(fmt.Sprintf("| %.6f | %.6f |\n", p.Volatility, p.Return))
		}
	} else {
		sb.WriteString("No frontier data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func writePortfolio(sb *strings.Builder, p PortfolioRow) {
	if len(p.Symbols) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("### %s\n\n", p.Label))
	sb.WriteString(fmt.Sprintf("Expected return: %.6f | Volatility: %.6f\n\n", p.Return, p.Volatility))
	sb.WriteString("| Symbol | Weight |\n")
	sb.WriteString("|--------|--------|\n")
	for i, symbol := range p.Symbols {
		sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", symbol, p.Weights[i]))
	}
	sb.WriteString("\n")
}
