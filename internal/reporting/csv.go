package reporting

import (
	"fmt"
	"strings"
)

// RenderStatsCSV renders asset statistics as CSV string.
func RenderStatsCSV(rows []AssetStatRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("symbol,observations,mean,stddev,min,p25,median,p75,max,")
	sb.WriteString("skewness,kurtosis,mean_annualized,stddev_annualized\n")

	// Rows
	for _, s := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			s.Symbol,
			s.Observations,
			s.Mean,
			s.Stddev,
			s.Min,
			s.P25,
			s.Median,
			s.P75,
			s.Max,
			s.Skewness,
			s.Kurtosis,
			s.MeanAnnualized,
			s.StddevAnnualized,
		))
	}

	return sb.String()
}

// RenderFrontierCSV renders frontier points as CSV string.
func RenderFrontierCSV(rows []FrontierRow) string {
	var sb strings.Builder

	sb.WriteString("volatility,return\n")
	for _, p := range rows {
		sb.WriteString(fmt.Sprintf("%.6f,%.6f\n", p.Volatility, p.Return))
	}

	return sb.String()
}
