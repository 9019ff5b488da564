package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/frontier"
	"github.com/sstoeckl/tidy-finance/internal/storage/memory"
)

func setupTestData(t *testing.T) (*memory.SecurityStore, *memory.ReturnStore, *memory.AssetStatsStore) {
	t.Helper()
	ctx := context.Background()

	securityStore := memory.NewSecurityStore()
	returnStore := memory.NewReturnStore()
	statsStore := memory.NewAssetStatsStore()

	securities := []*domain.Security{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Currency: "USD", Index: "DOW"},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Currency: "USD", Index: "DOW"},
	}
	for _, s := range securities {
		if err := securityStore.Insert(ctx, s); err != nil {
			t.Fatalf("Insert security failed: %v", err)
		}
	}

	points := []*domain.ReturnPoint{
		{Symbol: "AAPL", Date: day(2024, time.January, 3), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.01},
		{Symbol: "AAPL", Date: day(2024, time.January, 4), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: -0.02},
		{Symbol: "MSFT", Date: day(2024, time.January, 3), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.02},
		{Symbol: "MSFT", Date: day(2024, time.January, 5), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.03},
	}
	if err := returnStore.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk returns failed: %v", err)
	}

	stats := []*domain.AssetStats{
		{Symbol: "MSFT", Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Observations: 2, Mean: 0.025, Stddev: 0.00707},
		{Symbol: "AAPL", Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Observations: 2, Mean: -0.005, Stddev: 0.0212},
		{Symbol: "AAPL", Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Observations: 2, Mean: -0.006, Stddev: 0.0210},
	}
	for _, s := range stats {
		if err := statsStore.Insert(ctx, s); err != nil {
			t.Fatalf("Insert stats failed: %v", err)
		}
	}

	return securityStore, returnStore, statsStore
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testAnalysis() *Analysis {
	return &Analysis{
		Correlation: CorrelationSection{
			Symbols: []string{"AAPL", "MSFT"},
			Matrix:  [][]float64{{1, 0.42}, {0.42, 1}},
		},
		MinimumVariance: &frontier.Portfolio{
			Symbols: []string{"AAPL", "MSFT"}, Weights: []float64{0.3, 0.7}, Return: 0.016, Volatility: 0.006,
		},
		Efficient: &frontier.Portfolio{
			Symbols: []string{"AAPL", "MSFT"}, Weights: []float64{-0.1, 1.1}, Return: 0.048, Volatility: 0.009,
		},
		Frontier: []*frontier.Portfolio{
			{Return: 0.010, Volatility: 0.008},
			{Return: 0.016, Volatility: 0.006},
			{Return: 0.048, Volatility: 0.009},
		},
	}
}

func TestGenerate(t *testing.T) {
	securityStore, returnStore, statsStore := setupTestData(t)

	fixed := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(securityStore, returnStore, statsStore).
		WithClock(func() time.Time { return fixed })

	report, err := gen.Generate(context.Background(), domain.MethodSimple, domain.FrequencyDaily, testAnalysis())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("expected fixed clock %v, got %v", fixed, report.GeneratedAt)
	}
	if report.Method != "simple" || report.Frequency != "daily" {
		t.Errorf("unexpected labels: %s %s", report.Method, report.Frequency)
	}

	// log rows must be filtered out
	if report.AssetCount != 2 || len(report.AssetStats) != 2 {
		t.Fatalf("expected 2 asset rows, got %d", len(report.AssetStats))
	}
	if report.AssetStats[0].Symbol != "AAPL" || report.AssetStats[1].Symbol != "MSFT" {
		t.Errorf("expected rows sorted by symbol, got %v", report.AssetStats)
	}

	if report.DataSummary.Securities != 2 {
		t.Errorf("expected 2 securities, got %d", report.DataSummary.Securities)
	}
	if report.DataSummary.Observations != 4 {
		t.Errorf("expected 4 observations, got %d", report.DataSummary.Observations)
	}
	if !report.DataSummary.DateRangeStart.Equal(day(2024, time.January, 3)) {
		t.Errorf("unexpected range start %v", report.DataSummary.DateRangeStart)
	}
	if !report.DataSummary.DateRangeEnd.Equal(day(2024, time.January, 5)) {
		t.Errorf("unexpected range end %v", report.DataSummary.DateRangeEnd)
	}

	if len(report.Frontier) != 3 {
		t.Errorf("expected 3 frontier rows, got %d", len(report.Frontier))
	}
	if report.MinimumVariance.Label != "Minimum Variance" {
		t.Errorf("unexpected portfolio label %q", report.MinimumVariance.Label)
	}
}

func TestGenerateWithoutAnalysis(t *testing.T) {
	securityStore, returnStore, statsStore := setupTestData(t)

	gen := NewGenerator(securityStore, returnStore, statsStore)
	report, err := gen.Generate(context.Background(), domain.MethodSimple, domain.FrequencyDaily, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.Frontier) != 0 {
		t.Errorf("expected no frontier rows, got %d", len(report.Frontier))
	}
	if len(report.MinimumVariance.Symbols) != 0 {
		t.Errorf("expected empty portfolio, got %v", report.MinimumVariance)
	}
}

func TestRenderMarkdown(t *testing.T) {
	securityStore, returnStore, statsStore := setupTestData(t)

	gen := NewGenerator(securityStore, returnStore, statsStore)
	report, err := gen.Generate(context.Background(), domain.MethodSimple, domain.FrequencyDaily, testAnalysis())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Research Report",
		"## Data Summary",
		"## Asset Statistics",
		"## Correlation",
		"### Minimum Variance",
		"### Efficient",
		"## Efficient Frontier",
		"| AAPL |",
		"| MSFT |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownEmptyReport(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: time.Now()})

	for _, want := range []string{
		"No asset statistics available.",
		"No correlation data available.",
		"No frontier data available.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderStatsCSV(t *testing.T) {
	rows := []AssetStatRow{
		{Symbol: "AAPL", Observations: 2, Mean: 0.01, Stddev: 0.02},
	}

	csv := RenderStatsCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "symbol,observations,mean,stddev") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AAPL,2,0.010000,0.020000") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestRenderFrontierCSV(t *testing.T) {
	csv := RenderFrontierCSV([]FrontierRow{{Return: 0.01, Volatility: 0.02}})
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "volatility,return" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "0.020000,0.010000" {
		t.Errorf("unexpected row: %s", lines[1])
	}
}
