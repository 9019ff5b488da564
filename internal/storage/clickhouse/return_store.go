package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// ReturnStore implements storage.ReturnStore using ClickHouse.
type ReturnStore struct {
	conn *Conn
}

// NewReturnStore creates a new ReturnStore.
func NewReturnStore(conn *Conn) *ReturnStore {
	return &ReturnStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ReturnStore = (*ReturnStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (symbol, date, method, frequency). ClickHouse MergeTree does not
// enforce uniqueness, so duplicates are checked explicitly before insert.
func (s *ReturnStore) InsertBulk(ctx context.Context, points []*domain.ReturnPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		symbol    string
		date      string
		method    domain.Method
		frequency domain.Frequency
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.Symbol, p.Date.UTC().Format("2006-01-02"), p.Method, p.Frequency}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO returns (
			symbol, date, method, frequency, value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.Symbol, p.Date, string(p.Method), string(p.Frequency), p.Value,
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

// GetSeries retrieves the return series for a symbol/method/frequency, ordered by date ASC.
func (s *ReturnStore) GetSeries(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency) ([]*domain.ReturnPoint, error) {
	query := `
		SELECT symbol, date, method, frequency, value
		FROM returns
		WHERE symbol = ? AND method = ? AND frequency = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, string(method), string(frequency))
	if err != nil {
		return nil, fmt.Errorf("query return series: %w", err)
	}
	defer rows.Close()

	return scanReturnPoints(rows)
}

// GetByDateRange retrieves points of a series within [from, to] (inclusive).
func (s *ReturnStore) GetByDateRange(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency, from, to time.Time) ([]*domain.ReturnPoint, error) {
	query := `
		SELECT symbol, date, method, frequency, value
		FROM returns
		WHERE symbol = ? AND method = ? AND frequency = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, string(method), string(frequency), from, to)
	if err != nil {
		return nil, fmt.Errorf("query returns by date range: %w", err)
	}
	defer rows.Close()

	return scanReturnPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *ReturnStore) exists(ctx context.Context, p *domain.ReturnPoint) (bool, error) {
	query := `
		SELECT count(*) FROM returns
		WHERE symbol = ? AND date = ? AND method = ? AND frequency = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, p.Symbol, p.Date, string(p.Method), string(p.Frequency)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanReturnPoints scans rows into ReturnPoints.
func scanReturnPoints(rows driver.Rows) ([]*domain.ReturnPoint, error) {
	var points []*domain.ReturnPoint

	for rows.Next() {
		var p domain.ReturnPoint
		var method, frequency string
		var date time.Time

		if err := rows.Scan(&p.Symbol, &date, &method, &frequency, &p.Value); err != nil {
			return nil, fmt.Errorf("scan return row: %w", err)
		}

		p.Date = domain.Day(date)
		p.Method = domain.Method(method)
		p.Frequency = domain.Frequency(frequency)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return rows: %w", err)
	}

	return points, nil
}
