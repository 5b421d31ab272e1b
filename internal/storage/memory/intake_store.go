package memory

import (
	"context"
	"sort"
	"sync"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// IntakeStore is an in-memory implementation of storage.IntakeStore.
type IntakeStore struct {
	mu   sync.RWMutex
	data map[domain.Day]*domain.IntakeRecord // keyed by day
}

// NewIntakeStore creates a new in-memory intake store.
func NewIntakeStore() *IntakeStore {
	return &IntakeStore{
		data: make(map[domain.Day]*domain.IntakeRecord),
	}
}

// Upsert writes the intake record for its day, replacing any existing row.
func (s *IntakeStore) Upsert(_ context.Context, r *domain.IntakeRecord) error {
	if r == nil || r.Day == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	recCopy := *r
	s.data[r.Day] = &recCopy
	return nil
}

// Get retrieves the record for a day. Returns ErrNotFound if not exists.
func (s *IntakeStore) Get(_ context.Context, day domain.Day) (*domain.IntakeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[day]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	recCopy := *r
	return &recCopy, nil
}

// Range retrieves records within [from, to] (inclusive), ordered by day ASC.
func (s *IntakeStore) Range(_ context.Context, from, to domain.Day) ([]*domain.IntakeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.IntakeRecord
	for _, r := range s.data {
		if r.Day >= from && r.Day <= to {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}

	// Sort by day ASC
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.IntakeStore = (*IntakeStore)(nil)
