package memory

import (
	"context"
	"sort"
	"sync"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// WeightStore is an in-memory implementation of storage.WeightStore.
type WeightStore struct {
	mu   sync.RWMutex
	data map[domain.Day]*domain.WeightObservation // keyed by day
}

// NewWeightStore creates a new in-memory weight store.
func NewWeightStore() *WeightStore {
	return &WeightStore{
		data: make(map[domain.Day]*domain.WeightObservation),
	}
}

// Upsert writes the observation for its day, replacing any existing row.
func (s *WeightStore) Upsert(_ context.Context, o *domain.WeightObservation) error {
	if o == nil || o.Day == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	obsCopy := *o
	s.data[o.Day] = &obsCopy
	return nil
}

// Get retrieves the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Get(_ context.Context, day domain.Day) (*domain.WeightObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[day]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	obsCopy := *o
	return &obsCopy, nil
}

// Range retrieves observations within [from, to] (inclusive), ordered by day ASC.
func (s *WeightStore) Range(_ context.Context, from, to domain.Day) ([]*domain.WeightObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.WeightObservation
	for _, o := range s.data {
		if o.Day >= from && o.Day <= to {
			obsCopy := *o
			result = append(result, &obsCopy)
		}
	}

	// Sort by day ASC
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result, nil
}

// Latest retrieves the most recent observation. Returns ErrNotFound on an empty store.
func (s *WeightStore) Latest(_ context.Context) (*domain.WeightObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.WeightObservation
	for _, o := range s.data {
		if latest == nil || o.Day > latest.Day {
			latest = o
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	obsCopy := *latest
	return &obsCopy, nil
}

// Delete removes the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Delete(_ context.Context, day domain.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[day]; !exists {
		return storage.ErrNotFound
	}

	delete(s.data, day)
	return nil
}

// Count returns the total number of observations stored.
func (s *WeightStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}

// Verify interface compliance at compile time.
var _ storage.WeightStore = (*WeightStore)(nil)
