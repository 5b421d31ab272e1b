package clickhouse

import (
	"context"
	"fmt"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
// The table is a ReplacingMergeTree ordered by (as_of, window_days);
// duplicate detection happens with an explicit existence check since
// MergeTree engines do not enforce uniqueness at insert time.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	snapshot_id, as_of, window_days,
	avg_intake, mass_change,
	estimated, entries, created_at
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if (as_of, window_days) exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.ExpenditureSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.AsOf == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, snap.AsOf, snap.WindowDays)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO expenditure_snapshots (
			snapshot_id, as_of, window_days,
			avg_intake, mass_change,
			estimated, entries
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		snap.SnapshotID, string(snap.AsOf), uint16(snap.WindowDays),
		snap.AvgIntake, snap.MassChange,
		snap.Estimated, uint16(snap.Entries),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) Get(ctx context.Context, snapshotID string) (*domain.ExpenditureSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM expenditure_snapshots FINAL
		WHERE snapshot_id = ?
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, snapshotID)

	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// Range retrieves snapshots with as_of within [from, to] (inclusive), ordered by as_of ASC.
func (s *SnapshotStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM expenditure_snapshots FINAL
		WHERE as_of >= ? AND as_of <= ?
		ORDER BY as_of ASC, window_days ASC
	`

	rows, err := s.conn.Query(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("query snapshot range: %w", err)
	}
	defer rows.Close()

	var result []*domain.ExpenditureSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
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
		SELECT ` + snapshotColumns + `
		FROM expenditure_snapshots FINAL
		ORDER BY as_of DESC, window_days DESC
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query)

	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// exists checks if a snapshot with the given key exists.
func (s *SnapshotStore) exists(ctx context.Context, asOf domain.Day, windowDays int) (bool, error) {
	query := `
		SELECT count(*) FROM expenditure_snapshots FINAL
		WHERE as_of = ? AND window_days = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, string(asOf), uint16(windowDays)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRow is the minimal scan interface shared by QueryRow and Query
// results.
type chRow interface {
	Scan(dest ...interface{}) error
}

// scanSnapshot scans one row into an ExpenditureSnapshot.
func scanSnapshot(row chRow) (*domain.ExpenditureSnapshot, error) {
	var (
		snap       domain.ExpenditureSnapshot
		asOf       string
		windowDays uint16
		entries    uint16
	)
	err := row.Scan(
		&snap.SnapshotID, &asOf, &windowDays,
		&snap.AvgIntake, &snap.MassChange,
		&snap.Estimated, &entries, &snap.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.AsOf = domain.Day(asOf)
	snap.WindowDays = int(windowDays)
	snap.Entries = int(entries)
	return &snap, nil
}
