// Command report runs the research pipeline and writes the report files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sstoeckl/tidy-finance/internal/config"
	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/pipeline"
	"github.com/sstoeckl/tidy-finance/internal/storage"
	chstore "github.com/sstoeckl/tidy-finance/internal/storage/clickhouse"
	"github.com/sstoeckl/tidy-finance/internal/storage/memory"
	"github.com/sstoeckl/tidy-finance/internal/storage/migrations"
	pgstore "github.com/sstoeckl/tidy-finance/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixture data instead of databases")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	securityStore, candleStore, returnStore, statsStore, cleanup, err := createStores(ctx, cfg, *useFixtures)
	if err != nil {
		logger.Error("storage setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	p := pipeline.NewResearchPipeline(securityStore, candleStore, returnStore, statsStore, cfg.Report.OutputDir).
		WithMethod(domain.Method(cfg.Research.Method)).
		WithFrequency(domain.Frequency(cfg.Research.Frequency)).
		WithFrontier(cfg.Research.FrontierPoints, cfg.Research.TargetMultiple).
		WithLogger(logger)

	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Research report generated successfully:")
	fmt.Printf("  - %s/REPORT.md\n", cfg.Report.OutputDir)
	fmt.Printf("  - %s/asset_stats.csv\n", cfg.Report.OutputDir)
	fmt.Printf("  - %s/frontier.csv\n", cfg.Report.OutputDir)
}

// createStores wires either fixture-backed memory stores or the
// Postgres and ClickHouse backends.
func createStores(ctx context.Context, cfg *config.Config, useFixtures bool) (
	storage.SecurityStore,
	storage.CandleStore,
	storage.ReturnStore,
	storage.AssetStatsStore,
	func(),
	error,
) {
	if useFixtures {
		securityStore := memory.NewSecurityStore()
		candleStore := memory.NewCandleStore()
		if err := pipeline.LoadFixtures(ctx, securityStore, candleStore); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("load fixtures: %w", err)
		}
		return securityStore, candleStore, memory.NewReturnStore(), memory.NewAssetStatsStore(), func() {}, nil
	}

	if cfg.Database.PostgresDSN == "" || cfg.Database.ClickhouseDSN == "" {
		return nil, nil, nil, nil, nil, fmt.Errorf("database.postgres_dsn and database.clickhouse_dsn are required without -use-fixtures")
	}

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	conn, err := chstore.NewConn(ctx, cfg.Database.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		pool.Close()
		conn.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		pool.Close()
		conn.Close()
	}
	return pgstore.NewSecurityStore(pool), pgstore.NewCandleStore(pool),
		chstore.NewReturnStore(conn), chstore.NewAssetStatsStore(conn), cleanup, nil
}
