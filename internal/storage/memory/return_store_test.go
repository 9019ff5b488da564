package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

func TestReturnStore_InsertBulkAndGetSeries(t *testing.T) {
	store := NewReturnStore()
	ctx := context.Background()

	points := []*domain.ReturnPoint{
		{Symbol: "AAPL", Date: day(2023, 1, 5), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: -0.0106},
		{Symbol: "AAPL", Date: day(2023, 1, 4), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.0103},
		{Symbol: "AAPL", Date: day(2023, 1, 4), Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Value: 0.0102},
	}

	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetSeries(ctx, "AAPL", domain.MethodSimple, domain.FrequencyDaily)
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	// Ordered by date ASC
	if !got[0].Date.Equal(day(2023, 1, 4)) {
		t.Errorf("expected first point 2023-01-04, got %v", got[0].Date)
	}
}

func TestReturnStore_SameDateDifferentMethod(t *testing.T) {
	store := NewReturnStore()
	ctx := context.Background()

	// Same (symbol, date) under different methods is not a duplicate
	points := []*domain.ReturnPoint{
		{Symbol: "MSFT", Date: day(2023, 2, 1), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.02},
		{Symbol: "MSFT", Date: day(2023, 2, 1), Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Value: 0.0198},
		{Symbol: "MSFT", Date: day(2023, 2, 1), Method: domain.MethodSimple, Frequency: domain.FrequencyMonthly, Value: 0.05},
	}

	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
}

func TestReturnStore_DuplicateKey(t *testing.T) {
	store := NewReturnStore()
	ctx := context.Background()

	p := &domain.ReturnPoint{Symbol: "AAPL", Date: day(2023, 1, 4), Method: domain.MethodSimple, Frequency: domain.FrequencyDaily, Value: 0.01}

	if err := store.InsertBulk(ctx, []*domain.ReturnPoint{p}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.ReturnPoint{p})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestReturnStore_GetByDateRange(t *testing.T) {
	store := NewReturnStore()
	ctx := context.Background()

	points := []*domain.ReturnPoint{
		{Symbol: "AAPL", Date: day(2023, 1, 4), Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Value: 0.01},
		{Symbol: "AAPL", Date: day(2023, 1, 5), Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Value: -0.02},
		{Symbol: "AAPL", Date: day(2023, 1, 6), Method: domain.MethodLog, Frequency: domain.FrequencyDaily, Value: 0.03},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByDateRange(ctx, "AAPL", domain.MethodLog, domain.FrequencyDaily, day(2023, 1, 5), day(2023, 1, 6))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points in range, got %d", len(got))
	}
}
