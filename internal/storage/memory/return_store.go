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

// ReturnStore is an in-memory implementation of storage.ReturnStore.
type ReturnStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ReturnPoint // keyed by (symbol, date, method, frequency)
}

// NewReturnStore creates a new in-memory return store.
func NewReturnStore() *ReturnStore {
	return &ReturnStore{
		data: make(map[string]*domain.ReturnPoint),
	}
}

// returnKey generates a unique key for a return point.
func returnKey(symbol string, date time.Time, method domain.Method, frequency domain.Frequency) string {
	return fmt.Sprintf("%s|%s|%s|%s", symbol, date.UTC().Format("2006-01-02"), method, frequency)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *ReturnStore) InsertBulk(_ context.Context, points []*domain.ReturnPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))

	// First pass: check for duplicates (existing + intra-batch)
	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := returnKey(p.Symbol, p.Date, p.Method, p.Frequency)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, p := range points {
		pointCopy := *p
		s.data[returnKey(p.Symbol, p.Date, p.Method, p.Frequency)] = &pointCopy
	}

	return nil
}

// GetSeries retrieves the return series for a symbol/method/frequency, ordered by date ASC.
func (s *ReturnStore) GetSeries(_ context.Context, symbol string, method domain.Method, frequency domain.Frequency) ([]*domain.ReturnPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ReturnPoint
	for _, p := range s.data {
		if p.Symbol == symbol && p.Method == method && p.Frequency == frequency {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortReturnPoints(result)
	return result, nil
}

// GetByDateRange retrieves points of a series within [from, to] (inclusive).
func (s *ReturnStore) GetByDateRange(_ context.Context, symbol string, method domain.Method, frequency domain.Frequency, from, to time.Time) ([]*domain.ReturnPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ReturnPoint
	for _, p := range s.data {
		if p.Symbol == symbol && p.Method == method && p.Frequency == frequency &&
			!p.Date.Before(from) && !p.Date.After(to) {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortReturnPoints(result)
	return result, nil
}

func sortReturnPoints(points []*domain.ReturnPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

var _ storage.ReturnStore = (*ReturnStore)(nil)
