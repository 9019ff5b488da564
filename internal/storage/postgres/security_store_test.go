package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

func TestSecurityStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSecurityStore(pool)
	ctx := context.Background()

	sec := &domain.Security{
		Symbol:   "AAPL",
		Name:     "Apple Inc.",
		Exchange: "XNAS",
		Currency: "USD",
		Index:    "DJIA",
		AddedAt:  day(2023, 1, 1),
	}

	err := store.Insert(ctx, sec)
	require.NoError(t, err)

	got, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, sec.Symbol, got.Symbol)
	assert.Equal(t, sec.Name, got.Name)
	assert.Equal(t, sec.Exchange, got.Exchange)
	assert.Equal(t, sec.Currency, got.Currency)
	assert.Equal(t, sec.Index, got.Index)
	assert.True(t, sec.AddedAt.Equal(got.AddedAt))
}

func TestSecurityStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSecurityStore(pool)
	ctx := context.Background()

	sec := &domain.Security{Symbol: "AAPL", AddedAt: day(2023, 1, 1)}

	require.NoError(t, store.Insert(ctx, sec))

	err := store.Insert(ctx, sec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSecurityStore_GetBySymbolNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSecurityStore(pool)
	ctx := context.Background()

	_, err := store.GetBySymbol(ctx, "ZZZZ")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSecurityStore_GetByIndex(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSecurityStore(pool)
	ctx := context.Background()

	secs := []*domain.Security{
		{Symbol: "MSFT", Index: "DJIA", AddedAt: day(2023, 1, 1)},
		{Symbol: "AAPL", Index: "DJIA", AddedAt: day(2023, 1, 1)},
		{Symbol: "NVDA", Index: "SP500", AddedAt: day(2023, 1, 1)},
	}
	for _, sec := range secs {
		require.NoError(t, store.Insert(ctx, sec))
	}

	got, err := store.GetByIndex(ctx, "DJIA")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by symbol ASC
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "MSFT", got[1].Symbol)
}

func TestSecurityStore_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSecurityStore(pool)
	ctx := context.Background()

	for _, sym := range []string{"C", "A", "B"} {
		require.NoError(t, store.Insert(ctx, &domain.Security{Symbol: sym, AddedAt: day(2023, 1, 1)}))
	}

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Symbol)
	assert.Equal(t, "C", got[2].Symbol)
}
