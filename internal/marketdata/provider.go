// Package marketdata fetches end-of-day prices and corporate actions.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

var (
	// ErrSymbolNotFound indicates the provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrUnauthorized indicates a rejected or missing API token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Provider fetches end-of-day market data for a single symbol. The date
// range is inclusive on both ends.
type Provider interface {
	// DailyCandles returns the daily OHLCV bars for the symbol.
	DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error)

	// Dividends returns the cash dividend history keyed by ex-date.
	Dividends(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Dividend, error)

	// Splits returns the stock split history.
	Splits(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Split, error)
}
