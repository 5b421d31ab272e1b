package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// IntakeStore implements storage.IntakeStore on the embedded database.
type IntakeStore struct {
	db *DB
}

// NewIntakeStore creates a new IntakeStore.
func NewIntakeStore(db *DB) *IntakeStore {
	return &IntakeStore{db: db}
}

// Compile-time interface check.
var _ storage.IntakeStore = (*IntakeStore)(nil)

// Upsert writes the intake record for its day, replacing any existing row.
func (s *IntakeStore) Upsert(ctx context.Context, r *domain.IntakeRecord) error {
	if r == nil || r.Day == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO intake_records (day, calories, protein_g, carbs_g, fat_g)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (day) DO UPDATE
		SET calories = excluded.calories,
		    protein_g = excluded.protein_g,
		    carbs_g = excluded.carbs_g,
		    fat_g = excluded.fat_g,
		    updated_at = datetime('now')
	`

	if _, err := s.db.db.ExecContext(ctx, query,
		string(r.Day), r.Calories, r.ProteinG, r.CarbsG, r.FatG); err != nil {
		return fmt.Errorf("upsert intake record: %w", err)
	}
	return nil
}

// Get retrieves the record for a day. Returns ErrNotFound if not exists.
func (s *IntakeStore) Get(ctx context.Context, day domain.Day) (*domain.IntakeRecord, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT day, calories, protein_g, carbs_g, fat_g
		FROM intake_records
		WHERE day = ?
	`, string(day))

	r, err := scanIntake(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get intake record: %w", err)
	}
	return r, nil
}

// Range retrieves records within [from, to] (inclusive), ordered by day ASC.
func (s *IntakeStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.IntakeRecord, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT day, calories, protein_g, carbs_g, fat_g
		FROM intake_records
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("range intake records: %w", err)
	}
	defer rows.Close()

	var result []*domain.IntakeRecord
	for rows.Next() {
		r, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("scan intake row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intake rows: %w", err)
	}
	return result, nil
}

// scanIntake scans one row into an IntakeRecord.
func scanIntake(row scanner) (*domain.IntakeRecord, error) {
	var (
		day string
		r   domain.IntakeRecord
	)
	if err := row.Scan(&day, &r.Calories, &r.ProteinG, &r.CarbsG, &r.FatG); err != nil {
		return nil, err
	}
	r.Day = domain.Day(day)
	return &r, nil
}
