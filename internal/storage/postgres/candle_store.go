package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// CandleStore implements storage.CandleStore using PostgreSQL.
type CandleStore struct {
	pool *Pool
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(pool *Pool) *CandleStore {
	return &CandleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

const insertCandleQuery = `
	INSERT INTO candles (
		symbol, date, open, high, low, close, adj_close, volume
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert adds a new candle. Returns ErrDuplicateKey if (symbol, date) exists.
func (s *CandleStore) Insert(ctx context.Context, c *domain.Candle) error {
	_, err := s.pool.Exec(ctx, insertCandleQuery,
		c.Symbol,
		c.Date,
		c.Open,
		c.High,
		c.Low,
		c.Close,
		c.AdjClose,
		c.Volume,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert candle: %w", err)
	}
	return nil
}

// InsertBulk adds multiple candles atomically. Fails entire batch on any duplicate.
func (s *CandleStore) InsertBulk(ctx context.Context, candles []*domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range candles {
		_, err := tx.Exec(ctx, insertCandleQuery,
			c.Symbol,
			c.Date,
			c.Open,
			c.High,
			c.Low,
			c.Close,
			c.AdjClose,
			c.Volume,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert candle in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by date ASC.
func (s *CandleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.Candle, error) {
	query := `
		SELECT symbol, date, open, high, low, close, adj_close, volume
		FROM candles
		WHERE symbol = $1
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get candles by symbol: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetByDateRange retrieves candles for a symbol within [from, to] (inclusive).
func (s *CandleStore) GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error) {
	query := `
		SELECT symbol, date, open, high, low, close, adj_close, volume
		FROM candles
		WHERE symbol = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get candles by date range: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// scanCandles scans multiple rows into a slice of Candle.
func scanCandles(rows pgx.Rows) ([]*domain.Candle, error) {
	var candles []*domain.Candle

	for rows.Next() {
		var c domain.Candle
		var date time.Time

		err := rows.Scan(
			&c.Symbol,
			&date,
			&c.Open,
			&c.High,
			&c.Low,
			&c.Close,
			&c.AdjClose,
			&c.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candle row: %w", err)
		}

		c.Date = domain.Day(date)
		candles = append(candles, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candle rows: %w", err)
	}

	return candles, nil
}
