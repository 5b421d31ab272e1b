package storage

import (
	"context"

	"metabolic-lab/internal/domain"
)

// WeightStore provides access to weight_observations storage.
// One row per calendar day; writing a day twice keeps the latest.
type WeightStore interface {
	// Upsert writes the observation for its day, replacing any existing row.
	Upsert(ctx context.Context, o *domain.WeightObservation) error

	// Get retrieves the observation for a day. Returns ErrNotFound if not exists.
	Get(ctx context.Context, day domain.Day) (*domain.WeightObservation, error)

	// Range retrieves observations within [from, to] (inclusive), ordered by day ASC.
	Range(ctx context.Context, from, to domain.Day) ([]*domain.WeightObservation, error)

	// Latest retrieves the most recent observation. Returns ErrNotFound on an empty store.
	Latest(ctx context.Context) (*domain.WeightObservation, error)

	// Delete removes the observation for a day. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, day domain.Day) error

	// Count returns the total number of observations stored.
	Count(ctx context.Context) (int, error)
}

// IntakeStore provides access to intake_records storage.
// One row per calendar day; writing a day twice keeps the latest.
type IntakeStore interface {
	// Upsert writes the intake record for its day, replacing any existing row.
	Upsert(ctx context.Context, r *domain.IntakeRecord) error

	// Get retrieves the record for a day. Returns ErrNotFound if not exists.
	Get(ctx context.Context, day domain.Day) (*domain.IntakeRecord, error)

	// Range retrieves records within [from, to] (inclusive), ordered by day ASC.
	Range(ctx context.Context, from, to domain.Day) ([]*domain.IntakeRecord, error)
}

// SnapshotStore provides access to expenditure_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if (as_of, window_days) exists.
	Insert(ctx context.Context, s *domain.ExpenditureSnapshot) error

	// Get retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	Get(ctx context.Context, snapshotID string) (*domain.ExpenditureSnapshot, error)

	// Range retrieves snapshots with as_of within [from, to] (inclusive), ordered by as_of ASC.
	Range(ctx context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error)

	// Latest retrieves the most recent snapshot. Returns ErrNotFound on an empty store.
	Latest(ctx context.Context) (*domain.ExpenditureSnapshot, error)
}
