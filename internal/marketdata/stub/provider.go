// Package stub provides a deterministic in-memory market data provider
// for tests and offline runs.
package stub

import (
	"context"
	"sort"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/marketdata"
)

// Provider serves canned data filtered by the requested date range.
// Unknown symbols yield marketdata.ErrSymbolNotFound.
type Provider struct {
	candles   map[string][]*domain.Candle
	dividends map[string][]*domain.Dividend
	splits    map[string][]*domain.Split
}

var _ marketdata.Provider = (*Provider)(nil)

// NewProvider creates an empty stub provider.
func NewProvider() *Provider {
	return &Provider{
		candles:   make(map[string][]*domain.Candle),
		dividends: make(map[string][]*domain.Dividend),
		splits:    make(map[string][]*domain.Split),
	}
}

// AddCandles registers candles for a symbol.
func (p *Provider) AddCandles(symbol string, candles ...*domain.Candle) {
	p.candles[symbol] = append(p.candles[symbol], candles...)
}

// AddDividends registers dividends for a symbol.
func (p *Provider) AddDividends(symbol string, dividends ...*domain.Dividend) {
	p.dividends[symbol] = append(p.dividends[symbol], dividends...)
}

// AddSplits registers splits for a symbol.
func (p *Provider) AddSplits(symbol string, splits ...*domain.Split) {
	p.splits[symbol] = append(p.splits[symbol], splits...)
}

func (p *Provider) DailyCandles(_ context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error) {
	all, ok := p.candles[symbol]
	if !ok {
		return nil, marketdata.ErrSymbolNotFound
	}

	var result []*domain.Candle
	for _, c := range all {
		if inRange(c.Date, from, to) {
			copied := *c
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (p *Provider) Dividends(_ context.Context, symbol string, from, to time.Time) ([]*domain.Dividend, error) {
	if _, ok := p.candles[symbol]; !ok {
		return nil, marketdata.ErrSymbolNotFound
	}

	var result []*domain.Dividend
	for _, d := range p.dividends[symbol] {
		if inRange(d.ExDate, from, to) {
			copied := *d
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (p *Provider) Splits(_ context.Context, symbol string, from, to time.Time) ([]*domain.Split, error) {
	if _, ok := p.candles[symbol]; !ok {
		return nil, marketdata.ErrSymbolNotFound
	}

	var result []*domain.Split
	for _, s := range p.splits[symbol] {
		if inRange(s.Date, from, to) {
			copied := *s
			result = append(result, &copied)
		}
	}
	return result, nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
