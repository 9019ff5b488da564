package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// AssetStatsStore implements storage.AssetStatsStore using ClickHouse.
type AssetStatsStore struct {
	conn *Conn
}

// NewAssetStatsStore creates a new AssetStatsStore.
func NewAssetStatsStore(conn *Conn) *AssetStatsStore {
	return &AssetStatsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AssetStatsStore = (*AssetStatsStore)(nil)

// Insert adds a new stats row. Returns ErrDuplicateKey if key exists.
func (s *AssetStatsStore) Insert(ctx context.Context, st *domain.AssetStats) error {
	return s.InsertBulk(ctx, []*domain.AssetStats{st})
}

// InsertBulk adds multiple rows. Fails entire batch on any duplicate.
// ClickHouse MergeTree does not enforce uniqueness, so duplicates are
// checked explicitly before insert.
func (s *AssetStatsStore) InsertBulk(ctx context.Context, stats []*domain.AssetStats) error {
	if len(stats) == 0 {
		return nil
	}

	type key struct {
		symbol    string
		method    domain.Method
		frequency domain.Frequency
	}
	seen := make(map[key]struct{})
	for _, st := range stats {
		if st == nil || st.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := key{st.Symbol, st.Method, st.Frequency}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, st := range stats {
		exists, err := s.exists(ctx, st.Symbol, st.Method, st.Frequency)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO asset_stats (
			symbol, method, frequency, observations,
			mean, stddev, min, p25, median, p75, max,
			skewness, kurtosis, mean_annualized, stddev_annualized
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, st := range stats {
		err = batch.Append(
			st.Symbol, string(st.Method), string(st.Frequency), int32(st.Observations),
			st.Mean, st.Stddev, st.Min, st.P25, st.Median, st.P75, st.Max,
			st.Skewness, st.Kurtosis, st.MeanAnnualized, st.StddevAnnualized,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKey retrieves a stats row by its composite key.
func (s *AssetStatsStore) GetByKey(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency) (*domain.AssetStats, error) {
	query := selectAssetStats + `
		WHERE symbol = ? AND method = ? AND frequency = ?
	`

	rows, err := s.conn.Query(ctx, query, symbol, string(method), string(frequency))
	if err != nil {
		return nil, fmt.Errorf("query asset stats by key: %w", err)
	}
	defer rows.Close()

	stats, err := scanAssetStats(rows)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, storage.ErrNotFound
	}
	return stats[0], nil
}

// GetAll retrieves all stats rows.
func (s *AssetStatsStore) GetAll(ctx context.Context) ([]*domain.AssetStats, error) {
	query := selectAssetStats + `
		ORDER BY symbol ASC, method ASC, frequency ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all asset stats: %w", err)
	}
	defer rows.Close()

	return scanAssetStats(rows)
}

// exists checks if a row with the given key exists.
func (s *AssetStatsStore) exists(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency) (bool, error) {
	query := `
		SELECT count(*) FROM asset_stats
		WHERE symbol = ? AND method = ? AND frequency = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, symbol, string(method), string(frequency)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const selectAssetStats = `
	SELECT symbol, method, frequency, observations,
		mean, stddev, min, p25, median, p75, max,
		skewness, kurtosis, mean_annualized, stddev_annualized
	FROM asset_stats
`

// scanAssetStats scans rows into AssetStats.
func scanAssetStats(rows driver.Rows) ([]*domain.AssetStats, error) {
	var stats []*domain.AssetStats

	for rows.Next() {
		var st domain.AssetStats
		var method, frequency string
		var observations int32

		err := rows.Scan(
			&st.Symbol, &method, &frequency, &observations,
			&st.Mean, &st.Stddev, &st.Min, &st.P25, &st.Median, &st.P75, &st.Max,
			&st.Skewness, &st.Kurtosis, &st.MeanAnnualized, &st.StddevAnnualized,
		)
		if err != nil {
			return nil, fmt.Errorf("scan asset stats row: %w", err)
		}

		st.Method = domain.Method(method)
		st.Frequency = domain.Frequency(frequency)
		st.Observations = int(observations)
		stats = append(stats, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset stats rows: %w", err)
	}

	return stats, nil
}
