package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// WeightStore implements storage.WeightStore on the embedded database.
type WeightStore struct {
	db *DB
}

// NewWeightStore creates a new WeightStore.
func NewWeightStore(db *DB) *WeightStore {
	return &WeightStore{db: db}
}

// Compile-time interface check.
var _ storage.WeightStore = (*WeightStore)(nil)

// Upsert writes the observation for its day, replacing any existing row.
func (s *WeightStore) Upsert(ctx context.Context, o *domain.WeightObservation) error {
	if o == nil || o.Day == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO weight_observations (day, mass, note)
		VALUES (?, ?, ?)
		ON CONFLICT (day) DO UPDATE
		SET mass = excluded.mass, note = excluded.note, updated_at = datetime('now')
	`

	if _, err := s.db.db.ExecContext(ctx, query, string(o.Day), o.Mass, o.Note); err != nil {
		return fmt.Errorf("upsert weight observation: %w", err)
	}
	return nil
}

// Get retrieves the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Get(ctx context.Context, day domain.Day) (*domain.WeightObservation, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT day, mass, note FROM weight_observations WHERE day = ?`, string(day))

	o, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get weight observation: %w", err)
	}
	return o, nil
}

// Range retrieves observations within [from, to] (inclusive), ordered by day ASC.
func (s *WeightStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.WeightObservation, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT day, mass, note
		FROM weight_observations
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("range weight observations: %w", err)
	}
	defer rows.Close()

	var result []*domain.WeightObservation
	for rows.Next() {
		o, err := scanWeight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weight row: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weight rows: %w", err)
	}
	return result, nil
}

// Latest retrieves the most recent observation. Returns ErrNotFound on an empty store.
func (s *WeightStore) Latest(ctx context.Context) (*domain.WeightObservation, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT day, mass, note FROM weight_observations ORDER BY day DESC LIMIT 1`)

	o, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("latest weight observation: %w", err)
	}
	return o, nil
}

// Delete removes the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Delete(ctx context.Context, day domain.Day) error {
	res, err := s.db.db.ExecContext(ctx,
		`DELETE FROM weight_observations WHERE day = ?`, string(day))
	if err != nil {
		return fmt.Errorf("delete weight observation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete weight observation: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Count returns the total number of observations stored.
func (s *WeightStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weight_observations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count weight observations: %w", err)
	}
	return count, nil
}

// scanner is the row interface shared by QueryRow and Query results.
type scanner interface {
	Scan(dest ...any) error
}

// scanWeight scans one row into a WeightObservation.
func scanWeight(row scanner) (*domain.WeightObservation, error) {
	var (
		day string
		o   domain.WeightObservation
	)
	if err := row.Scan(&day, &o.Mass, &o.Note); err != nil {
		return nil, err
	}
	o.Day = domain.Day(day)
	return &o, nil
}
