// Command fetch downloads the universe's end-of-day data and stores it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/adjust"
	"github.com/sstoeckl/tidy-finance/internal/config"
	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/marketdata"
	"github.com/sstoeckl/tidy-finance/internal/observability"
	"github.com/sstoeckl/tidy-finance/internal/storage"
	"github.com/sstoeckl/tidy-finance/internal/storage/memory"
	"github.com/sstoeckl/tidy-finance/internal/storage/migrations"
	pgstore "github.com/sstoeckl/tidy-finance/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve metrics while the download runs
	if cfg.Metrics.Port > 0 {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, observability.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			logger.Info("starting metrics server", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if err := run(ctx, cfg, logger, *useMemory); err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, useMemory bool) error {
	securityStore, candleStore, cleanup, err := createStores(ctx, cfg, useMemory)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []marketdata.Option{
		marketdata.WithTimeout(cfg.Provider.Timeout),
		marketdata.WithRetries(cfg.Provider.MaxRetries),
		marketdata.WithLogger(logger),
	}
	if cfg.Provider.CacheDir != "" {
		opts = append(opts, marketdata.WithDailyCache(cfg.Provider.CacheDir))
	}
	provider := marketdata.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, opts...)

	securities, err := resolveUniverse(ctx, cfg)
	if err != nil {
		return err
	}
	observability.RecordSecuritiesDiscovered(len(securities))

	from, _ := cfg.FromDate()
	to, _ := cfg.ToDate()

	var fetched, skipped int
	for _, sec := range securities {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := fetchSecurity(ctx, provider, securityStore, candleStore, sec, from, to)
		if errors.Is(err, marketdata.ErrSymbolNotFound) {
			logger.Warn("symbol unknown to provider, skipping", "symbol", sec.Symbol)
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", sec.Symbol, err)
		}

		fetched += n
		logger.Info("stored candles", "symbol", sec.Symbol, "candles", n)
	}

	observability.DefaultMetrics.LastSuccessfulFetch.SetToCurrentTime()
	logger.Info("fetch finished", "securities", len(securities), "candles", fetched, "skipped", skipped)
	return nil
}

// fetchSecurity downloads candles and corporate actions for one symbol,
// back-adjusts the closes and stores everything. Already-stored candles
// are tolerated on rerun.
func fetchSecurity(
	ctx context.Context,
	provider marketdata.Provider,
	securityStore storage.SecurityStore,
	candleStore storage.CandleStore,
	sec *domain.Security,
	from, to time.Time,
) (int, error) {
	started := time.Now()
	candles, err := provider.DailyCandles(ctx, sec.Symbol, from, to)
	observability.RecordProviderRequest("eod", time.Since(started).Seconds(), err)
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, nil
	}

	started = time.Now()
	dividends, err := provider.Dividends(ctx, sec.Symbol, from, to)
	observability.RecordProviderRequest("div", time.Since(started).Seconds(), err)
	if err != nil {
		return 0, err
	}

	started = time.Now()
	splits, err := provider.Splits(ctx, sec.Symbol, from, to)
	observability.RecordProviderRequest("splits", time.Since(started).Seconds(), err)
	if err != nil {
		return 0, err
	}

	candles = adjust.Apply(candles, dividends, splits)

	if err := securityStore.Insert(ctx, sec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, err
	}
	if err := candleStore.InsertBulk(ctx, candles); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, err
	}

	observability.RecordCandlesFetched(len(candles))
	return len(candles), nil
}

// resolveUniverse returns the securities to download. Explicit symbols
// win over the constituents URL.
func resolveUniverse(ctx context.Context, cfg *config.Config) ([]*domain.Security, error) {
	if len(cfg.Universe.Symbols) > 0 {
		securities := make([]*domain.Security, 0, len(cfg.Universe.Symbols))
		now := time.Now().UTC()
		for _, symbol := range cfg.Universe.Symbols {
			securities = append(securities, &domain.Security{
				Symbol:  symbol,
				Index:   cfg.Universe.Index,
				AddedAt: now,
			})
		}
		return securities, nil
	}

	return marketdata.FetchConstituents(ctx, http.DefaultClient, cfg.Universe.ConstituentsURL, cfg.Universe.Index)
}

// createStores wires the storage backend. The returned cleanup closes
// database connections.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (storage.SecurityStore, storage.CandleStore, func(), error) {
	if useMemory {
		return memory.NewSecurityStore(), memory.NewCandleStore(), func() {}, nil
	}

	if cfg.Database.PostgresDSN == "" {
		return nil, nil, nil, fmt.Errorf("database.postgres_dsn is required without -use-memory")
	}

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgstore.NewSecurityStore(pool), pgstore.NewCandleStore(pool), pool.Close, nil
}
