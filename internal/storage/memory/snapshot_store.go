package memory

import (
	"context"
	"sort"
	"sync"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ExpenditureSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.ExpenditureSnapshot),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if (as_of, window_days) exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.ExpenditureSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.AsOf == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}
	for _, existing := range s.data {
		if existing.AsOf == snap.AsOf && existing.WindowDays == snap.WindowDays {
			return storage.ErrDuplicateKey
		}
	}

	// Store a copy to prevent external mutation
	snapCopy := *snap
	s.data[snap.SnapshotID] = &snapCopy
	return nil
}

// Get retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) Get(_ context.Context, snapshotID string) (*domain.ExpenditureSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[snapshotID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	snapCopy := *snap
	return &snapCopy, nil
}

// Range retrieves snapshots with as_of within [from, to] (inclusive), ordered by as_of ASC.
func (s *SnapshotStore) Range(_ context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ExpenditureSnapshot
	for _, snap := range s.data {
		if snap.AsOf >= from && snap.AsOf <= to {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}

	// Sort by (as_of, window_days) ASC, matching the ClickHouse table order
	sort.Slice(result, func(i, j int) bool {
		if result[i].AsOf != result[j].AsOf {
			return result[i].AsOf < result[j].AsOf
		}
		return result[i].WindowDays < result[j].WindowDays
	})

	return result, nil
}

// Latest retrieves the most recent snapshot. Returns ErrNotFound on an empty store.
func (s *SnapshotStore) Latest(_ context.Context) (*domain.ExpenditureSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ExpenditureSnapshot
	for _, snap := range s.data {
		switch {
		case latest == nil:
			latest = snap
		case snap.AsOf > latest.AsOf:
			latest = snap
		case snap.AsOf == latest.AsOf && snap.WindowDays > latest.WindowDays:
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	snapCopy := *latest
	return &snapCopy, nil
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)
