package memory

import (
	"context"
	"errors"
	"testing"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

func TestIntakeStore_UpsertAndGet(t *testing.T) {
	store := NewIntakeStore()
	ctx := context.Background()

	rec := &domain.IntakeRecord{Day: "2025-03-01", Calories: 1850, ProteinG: 160, CarbsG: 150, FatG: 60}

	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Calories != 1850 {
		t.Errorf("Calories mismatch: got %f, want 1850", got.Calories)
	}
	if got.ProteinG != 160 {
		t.Errorf("ProteinG mismatch: got %f, want 160", got.ProteinG)
	}
}

func TestIntakeStore_UpsertOverwritesSameDay(t *testing.T) {
	store := NewIntakeStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, &domain.IntakeRecord{Day: "2025-03-01", Calories: 1850}); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, &domain.IntakeRecord{Day: "2025-03-01", Calories: 2100}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Calories != 2100 {
		t.Errorf("Expected latest calories 2100, got %f", got.Calories)
	}
}

func TestIntakeStore_NotFound(t *testing.T) {
	store := NewIntakeStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "2025-03-01")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIntakeStore_RangeSorted(t *testing.T) {
	store := NewIntakeStore()
	ctx := context.Background()

	days := []domain.Day{"2025-03-04", "2025-03-02", "2025-03-01", "2025-03-03"}
	for _, d := range days {
		if err := store.Upsert(ctx, &domain.IntakeRecord{Day: d, Calories: 1900}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	result, err := store.Range(ctx, "2025-03-02", "2025-03-04")
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if !(result[i-1].Day < result[i].Day) {
			t.Errorf("Range not sorted: %s before %s", result[i-1].Day, result[i].Day)
		}
	}
}

func TestIntakeStore_InvalidInput(t *testing.T) {
	store := NewIntakeStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Upsert(ctx, &domain.IntakeRecord{Day: ""}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty day, got %v", err)
	}
}
