// Package pipeline orchestrates the research run from stored candles to
// report files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/frontier"
	"github.com/sstoeckl/tidy-finance/internal/observability"
	"github.com/sstoeckl/tidy-finance/internal/reporting"
	"github.com/sstoeckl/tidy-finance/internal/returns"
	"github.com/sstoeckl/tidy-finance/internal/stats"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// ErrNoSecurities indicates an empty universe.
var ErrNoSecurities = errors.New("no securities in universe")

// ResearchPipeline computes returns, statistics and the efficient
// frontier from stored candles and writes report files.
type ResearchPipeline struct {
	securityStore storage.SecurityStore
	candleStore   storage.CandleStore
	returnStore   storage.ReturnStore
	statsStore    storage.AssetStatsStore

	method         domain.Method
	frequency      domain.Frequency
	frontierPoints int
	targetMultiple float64
	outputDir      string
	logger         *slog.Logger
	clock          func() time.Time
}

// NewResearchPipeline creates a pipeline over the given stores.
func NewResearchPipeline(
	securityStore storage.SecurityStore,
	candleStore storage.CandleStore,
	returnStore storage.ReturnStore,
	statsStore storage.AssetStatsStore,
	outputDir string,
) *ResearchPipeline {
	return &ResearchPipeline{
		securityStore:  securityStore,
		candleStore:    candleStore,
		returnStore:    returnStore,
		statsStore:     statsStore,
		method:         domain.MethodSimple,
		frequency:      domain.FrequencyDaily,
		frontierPoints: 100,
		targetMultiple: 3,
		outputDir:      outputDir,
		logger:         slog.Default(),
		clock:          func() time.Time { return time.Now().UTC() },
	}
}

// WithMethod sets the return computation method.
func (p *ResearchPipeline) WithMethod(method domain.Method) *ResearchPipeline {
	p.method = method
	return p
}

// WithFrequency sets the return frequency.
func (p *ResearchPipeline) WithFrequency(frequency domain.Frequency) *ResearchPipeline {
	p.frequency = frequency
	return p
}

// WithFrontier sets the frontier sweep parameters.
func (p *ResearchPipeline) WithFrontier(points int, targetMultiple float64) *ResearchPipeline {
	p.frontierPoints = points
	p.targetMultiple = targetMultiple
	return p
}

// WithLogger sets the structured logger.
func (p *ResearchPipeline) WithLogger(logger *slog.Logger) *ResearchPipeline {
	p.logger = logger
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *ResearchPipeline) WithClock(clock func() time.Time) *ResearchPipeline {
	p.clock = clock
	return p
}

// Run executes the full pipeline and writes output files:
// - REPORT.md
// - asset_stats.csv
// - frontier.csv
// Rerunning over already-stored series is allowed; duplicate rows are
// skipped.
func (p *ResearchPipeline) Run(ctx context.Context) error {
	started := p.clock()

	err := p.run(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordPipelineRun(status, p.clock().Sub(started).Seconds())
	if err == nil {
		observability.DefaultMetrics.LastSuccessfulPipeline.SetToCurrentTime()
	}
	return err
}

func (p *ResearchPipeline) run(ctx context.Context) error {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return err
	}

	securities, err := p.securityStore.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(securities) == 0 {
		return ErrNoSecurities
	}

	// 1. Compute and store return series per security.
	series := make(map[string][]*domain.ReturnPoint, len(securities))
	for _, sec := range securities {
		candles, err := p.candleStore.GetBySymbol(ctx, sec.Symbol)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		var points []*domain.ReturnPoint
		switch p.frequency {
		case domain.FrequencyMonthly:
			points = returns.Monthly(candles, p.method)
		default:
			points = returns.Daily(candles, p.method)
		}
		if len(points) == 0 {
			p.logger.Warn("skipping security without usable candles", "symbol", sec.Symbol)
			continue
		}

		if err := p.returnStore.InsertBulk(ctx, points); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("store returns for %s: %w", sec.Symbol, err)
		}
		observability.DefaultMetrics.ReturnsComputed.Add(float64(len(points)))
		series[sec.Symbol] = points
	}
	if len(series) == 0 {
		return ErrNoSecurities
	}

	// 2. Compute and store per-asset summary statistics.
	for symbol, points := range series {
		values := make([]float64, len(points))
		for i, pt := range points {
			values[i] = pt.Value
		}

		summary, err := stats.Summarize(symbol, p.method, p.frequency, values)
		if err != nil {
			p.logger.Warn("skipping summary", "symbol", symbol, "error", err)
			continue
		}
		if err := p.statsStore.Insert(ctx, summary); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("store stats for %s: %w", symbol, err)
		}
		observability.DefaultMetrics.StatsComputed.Inc()
	}

	// 3. Align the panel and solve for portfolios.
	analysis, err := p.analyze(series)
	if err != nil {
		p.logger.Warn("portfolio analysis skipped", "error", err)
	}

	// 4. Generate and write the report files.
	report, err := reporting.NewGenerator(p.securityStore, p.returnStore, p.statsStore).
		WithClock(p.clock).
		Generate(ctx, p.method, p.frequency, analysis)
	if err != nil {
		return err
	}

	reportPath := filepath.Join(p.outputDir, "REPORT.md")
	if err := os.WriteFile(reportPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		return err
	}
	statsPath := filepath.Join(p.outputDir, "asset_stats.csv")
	if err := os.WriteFile(statsPath, []byte(reporting.RenderStatsCSV(report.AssetStats)), 0644); err != nil {
		return err
	}
	frontierPath := filepath.Join(p.outputDir, "frontier.csv")
	if err := os.WriteFile(frontierPath, []byte(reporting.RenderFrontierCSV(report.Frontier)), 0644); err != nil {
		return err
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	p.logger.Info("pipeline finished",
		"assets", report.AssetCount,
		"observations", report.DataSummary.Observations,
		"report", reportPath,
	)
	return nil
}

// analyze aligns the return series and computes the correlation matrix,
// the closed-form portfolios and the frontier trace. A panel that is
// too small or collinear is not fatal for the run.
func (p *ResearchPipeline) analyze(series map[string][]*domain.ReturnPoint) (*reporting.Analysis, error) {
	panel, err := returns.Align(series)
	if err != nil {
		return nil, err
	}

	moments, err := stats.ComputeMoments(panel)
	if err != nil {
		return nil, err
	}
	correlation, err := stats.CorrelationMatrix(panel)
	if err != nil {
		return nil, err
	}

	opt, err := frontier.New(moments.Symbols, moments.Mean, moments.Cov)
	if err != nil {
		return nil, err
	}

	mvp := opt.MinimumVariance()
	efficient, err := opt.Efficient(p.targetMultiple * mvp.Return)
	if err != nil {
		return nil, err
	}
	trace, err := opt.Trace(p.frontierPoints, p.targetMultiple)
	if err != nil {
		return nil, err
	}

	return &reporting.Analysis{
		Correlation: reporting.CorrelationSection{
			Symbols: panel.Symbols,
			Matrix:  correlation,
		},
		MinimumVariance: mvp,
		Efficient:       efficient,
		Frontier:        trace,
	}, nil
}
