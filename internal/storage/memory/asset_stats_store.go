package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// AssetStatsStore is an in-memory implementation of storage.AssetStatsStore.
type AssetStatsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AssetStats // keyed by (symbol, method, frequency)
}

// NewAssetStatsStore creates a new in-memory asset stats store.
func NewAssetStatsStore() *AssetStatsStore {
	return &AssetStatsStore{
		data: make(map[string]*domain.AssetStats),
	}
}

// statsKey generates a unique key for a stats row.
func statsKey(symbol string, method domain.Method, frequency domain.Frequency) string {
	return fmt.Sprintf("%s|%s|%s", symbol, method, frequency)
}

// Insert adds a new stats row. Returns ErrDuplicateKey if key exists.
func (s *AssetStatsStore) Insert(_ context.Context, st *domain.AssetStats) error {
	if st == nil || st.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := statsKey(st.Symbol, st.Method, st.Frequency)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	statsCopy := *st
	s.data[key] = &statsCopy
	return nil
}

// InsertBulk adds multiple rows. Fails entire batch on any duplicate.
func (s *AssetStatsStore) InsertBulk(_ context.Context, stats []*domain.AssetStats) error {
	if len(stats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(stats))

	for _, st := range stats {
		if st == nil || st.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := statsKey(st.Symbol, st.Method, st.Frequency)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, st := range stats {
		statsCopy := *st
		s.data[statsKey(st.Symbol, st.Method, st.Frequency)] = &statsCopy
	}

	return nil
}

// GetByKey retrieves a stats row by its composite key.
func (s *AssetStatsStore) GetByKey(_ context.Context, symbol string, method domain.Method, frequency domain.Frequency) (*domain.AssetStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.data[statsKey(symbol, method, frequency)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	statsCopy := *st
	return &statsCopy, nil
}

// GetAll retrieves all stats rows, sorted by (symbol, method, frequency).
func (s *AssetStatsStore) GetAll(_ context.Context) ([]*domain.AssetStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.AssetStats, 0, len(s.data))
	for _, st := range s.data {
		statsCopy := *st
		result = append(result, &statsCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol != result[j].Symbol {
			return result[i].Symbol < result[j].Symbol
		}
		if result[i].Method != result[j].Method {
			return result[i].Method < result[j].Method
		}
		return result[i].Frequency < result[j].Frequency
	})

	return result, nil
}

var _ storage.AssetStatsStore = (*AssetStatsStore)(nil)
