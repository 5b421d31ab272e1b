package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
// Unlike the daily tables, snapshots are insert-only: re-running the
// estimator for a recorded (as_of, window_days) is a duplicate, not
// an overwrite.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if (as_of, window_days) exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.ExpenditureSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.AsOf == "" {
		return storage.ErrInvalidInput
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO expenditure_snapshots
			(snapshot_id, as_of, window_days, avg_intake, mass_change, estimated, entries, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		snap.SnapshotID, string(snap.AsOf), snap.WindowDays,
		snap.AvgIntake, snap.MassChange, snap.Estimated,
		snap.Entries, createdAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		if isCheckViolationError(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("insert expenditure snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) Get(ctx context.Context, snapshotID string) (*domain.ExpenditureSnapshot, error) {
	query := `
		SELECT snapshot_id, as_of, window_days, avg_intake, mass_change, estimated, entries, created_at
		FROM expenditure_snapshots
		WHERE snapshot_id = $1
	`

	snap, err := scanSnapshotRow(s.pool.QueryRow(ctx, query, snapshotID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get expenditure snapshot: %w", err)
	}
	return snap, nil
}

// Range retrieves snapshots with as_of within [from, to] (inclusive), ordered by as_of ASC.
func (s *SnapshotStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error) {
	query := `
		SELECT snapshot_id, as_of, window_days, avg_intake, mass_change, estimated, entries, created_at
		FROM expenditure_snapshots
		WHERE as_of >= $1 AND as_of <= $2
		ORDER BY as_of ASC, window_days ASC
	`

	rows, err := s.pool.Query(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("range expenditure snapshots: %w", err)
	}
	defer rows.Close()

	var result []*domain.ExpenditureSnapshot
	for rows.Next() {
		snap, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return result, nil
}

// Latest retrieves the most recent snapshot. Returns ErrNotFound on an empty store.
func (s *SnapshotStore) Latest(ctx context.Context) (*domain.ExpenditureSnapshot, error) {
	query := `
		SELECT snapshot_id, as_of, window_days, avg_intake, mass_change, estimated, entries, created_at
		FROM expenditure_snapshots
		ORDER BY as_of DESC, window_days DESC
		LIMIT 1
	`

	snap, err := scanSnapshotRow(s.pool.QueryRow(ctx, query))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("latest expenditure snapshot: %w", err)
	}
	return snap, nil
}

// scanSnapshotRow scans a single row into an ExpenditureSnapshot.
func scanSnapshotRow(row pgx.Row) (*domain.ExpenditureSnapshot, error) {
	var (
		asOf string
		snap domain.ExpenditureSnapshot
	)
	if err := row.Scan(&snap.SnapshotID, &asOf, &snap.WindowDays,
		&snap.AvgIntake, &snap.MassChange, &snap.Estimated,
		&snap.Entries, &snap.CreatedAt); err != nil {
		return nil, err
	}
	snap.AsOf = domain.Day(asOf)
	return &snap, nil
}
