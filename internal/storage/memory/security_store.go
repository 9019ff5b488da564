package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// SecurityStore is an in-memory implementation of storage.SecurityStore.
type SecurityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Security // keyed by symbol
}

// NewSecurityStore creates a new in-memory security store.
func NewSecurityStore() *SecurityStore {
	return &SecurityStore{
		data: make(map[string]*domain.Security),
	}
}

// Insert adds a new security. Returns ErrDuplicateKey if symbol exists.
func (s *SecurityStore) Insert(_ context.Context, sec *domain.Security) error {
	if sec == nil || sec.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sec.Symbol]; exists {
		return storage.ErrDuplicateKey
	}

	secCopy := *sec
	s.data[sec.Symbol] = &secCopy
	return nil
}

// GetBySymbol retrieves a security by symbol. Returns ErrNotFound if not exists.
func (s *SecurityStore) GetBySymbol(_ context.Context, symbol string) (*domain.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.data[symbol]
	if !ok {
		return nil, storage.ErrNotFound
	}

	secCopy := *sec
	return &secCopy, nil
}

// GetByIndex retrieves all securities sourced from a given index, ordered by symbol ASC.
func (s *SecurityStore) GetByIndex(_ context.Context, index string) ([]*domain.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Security
	for _, sec := range s.data {
		if sec.Index == index {
			secCopy := *sec
			result = append(result, &secCopy)
		}
	}

	sortSecurities(result)
	return result, nil
}

// GetAll retrieves all securities, ordered by symbol ASC.
func (s *SecurityStore) GetAll(_ context.Context) ([]*domain.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Security, 0, len(s.data))
	for _, sec := range s.data {
		secCopy := *sec
		result = append(result, &secCopy)
	}

	sortSecurities(result)
	return result, nil
}

func sortSecurities(secs []*domain.Security) {
	sort.Slice(secs, func(i, j int) bool {
		return secs[i].Symbol < secs[j].Symbol
	})
}

var _ storage.SecurityStore = (*SecurityStore)(nil)
