package storage

import (
	"context"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

// SecurityStore provides access to securities storage.
type SecurityStore interface {
	// Insert adds a new security. Returns ErrDuplicateKey if symbol exists.
	Insert(ctx context.Context, s *domain.Security) error

	// GetBySymbol retrieves a security by symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Security, error)

	// GetByIndex retrieves all securities sourced from a given index,
	// ordered by symbol ASC.
	GetByIndex(ctx context.Context, index string) ([]*domain.Security, error)

	// GetAll retrieves all securities, ordered by symbol ASC.
	GetAll(ctx context.Context) ([]*domain.Security, error)
}

// CandleStore provides access to daily candles storage.
type CandleStore interface {
	// Insert adds a new candle. Returns ErrDuplicateKey if (symbol, date) exists.
	Insert(ctx context.Context, c *domain.Candle) error

	// InsertBulk adds multiple candles atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, candles []*domain.Candle) error

	// GetBySymbol retrieves all candles for a symbol, ordered by date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.Candle, error)

	// GetByDateRange retrieves candles for a symbol within [from, to] (inclusive),
	// ordered by date ASC.
	GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error)
}

// ReturnStore provides access to return series storage.
type ReturnStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (symbol, date, method, frequency).
	InsertBulk(ctx context.Context, points []*domain.ReturnPoint) error

	// GetSeries retrieves the return series for a symbol/method/frequency,
	// ordered by date ASC.
	GetSeries(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency) ([]*domain.ReturnPoint, error)

	// GetByDateRange retrieves points of a series within [from, to] (inclusive),
	// ordered by date ASC.
	GetByDateRange(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency, from, to time.Time) ([]*domain.ReturnPoint, error)
}

// AssetStatsStore provides access to asset_stats storage.
type AssetStatsStore interface {
	// Insert adds a new stats row. Returns ErrDuplicateKey if key exists.
	Insert(ctx context.Context, s *domain.AssetStats) error

	// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, stats []*domain.AssetStats) error

	// GetByKey retrieves a stats row by its composite key.
	GetByKey(ctx context.Context, symbol string, method domain.Method, frequency domain.Frequency) (*domain.AssetStats, error)

	// GetAll retrieves all stats rows.
	GetAll(ctx context.Context) ([]*domain.AssetStats, error)
}
