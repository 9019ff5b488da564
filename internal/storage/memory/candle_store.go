package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// CandleStore is an in-memory implementation of storage.CandleStore.
type CandleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Candle // keyed by (symbol, date)
}

// NewCandleStore creates a new in-memory candle store.
func NewCandleStore() *CandleStore {
	return &CandleStore{
		data: make(map[string]*domain.Candle),
	}
}

// candleKey generates a unique key for a candle.
func candleKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s|%s", symbol, date.UTC().Format("2006-01-02"))
}

// Insert adds a new candle. Returns ErrDuplicateKey if (symbol, date) exists.
func (s *CandleStore) Insert(_ context.Context, c *domain.Candle) error {
	if c == nil || c.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := candleKey(c.Symbol, c.Date)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	candleCopy := *c
	s.data[key] = &candleCopy
	return nil
}

// InsertBulk adds multiple candles. Fails entire batch on any duplicate.
func (s *CandleStore) InsertBulk(_ context.Context, candles []*domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(candles))

	// First pass: check for duplicates (existing + intra-batch)
	for _, c := range candles {
		if c == nil || c.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := candleKey(c.Symbol, c.Date)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, c := range candles {
		candleCopy := *c
		s.data[candleKey(c.Symbol, c.Date)] = &candleCopy
	}

	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by date ASC.
func (s *CandleStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Candle
	for _, c := range s.data {
		if c.Symbol == symbol {
			candleCopy := *c
			result = append(result, &candleCopy)
		}
	}

	sortCandles(result)
	return result, nil
}

// GetByDateRange retrieves candles for a symbol within [from, to] (inclusive).
func (s *CandleStore) GetByDateRange(_ context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Candle
	for _, c := range s.data {
		if c.Symbol == symbol && !c.Date.Before(from) && !c.Date.After(to) {
			candleCopy := *c
			result = append(result, &candleCopy)
		}
	}

	sortCandles(result)
	return result, nil
}

func sortCandles(candles []*domain.Candle) {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})
}

var _ storage.CandleStore = (*CandleStore)(nil)
