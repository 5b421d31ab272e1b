package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// IntakeStore implements storage.IntakeStore using PostgreSQL.
type IntakeStore struct {
	pool *Pool
}

// NewIntakeStore creates a new IntakeStore.
func NewIntakeStore(pool *Pool) *IntakeStore {
	return &IntakeStore{pool: pool}
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
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE
		SET calories = EXCLUDED.calories,
		    protein_g = EXCLUDED.protein_g,
		    carbs_g = EXCLUDED.carbs_g,
		    fat_g = EXCLUDED.fat_g,
		    updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, string(r.Day), r.Calories, r.ProteinG, r.CarbsG, r.FatG)
	if err != nil {
		if isCheckViolationError(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("upsert intake record: %w", err)
	}
	return nil
}

// Get retrieves the record for a day. Returns ErrNotFound if not exists.
func (s *IntakeStore) Get(ctx context.Context, day domain.Day) (*domain.IntakeRecord, error) {
	query := `
		SELECT day, calories, protein_g, carbs_g, fat_g
		FROM intake_records
		WHERE day = $1
	`

	row := s.pool.QueryRow(ctx, query, string(day))

	r, err := scanIntakeRow(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get intake record: %w", err)
	}
	return r, nil
}

// Range retrieves records within [from, to] (inclusive), ordered by day ASC.
func (s *IntakeStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.IntakeRecord, error) {
	query := `
		SELECT day, calories, protein_g, carbs_g, fat_g
		FROM intake_records
		WHERE day >= $1 AND day <= $2
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("range intake records: %w", err)
	}
	defer rows.Close()

	var result []*domain.IntakeRecord
	for rows.Next() {
		r, err := scanIntakeRow(rows)
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

// scanIntakeRow scans a single row into an IntakeRecord.
func scanIntakeRow(row pgx.Row) (*domain.IntakeRecord, error) {
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
