package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// WeightStore implements storage.WeightStore using PostgreSQL.
type WeightStore struct {
	pool *Pool
}

// NewWeightStore creates a new WeightStore.
func NewWeightStore(pool *Pool) *WeightStore {
	return &WeightStore{pool: pool}
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
		VALUES ($1, $2, $3)
		ON CONFLICT (day) DO UPDATE
		SET mass = EXCLUDED.mass, note = EXCLUDED.note, updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, string(o.Day), o.Mass, o.Note)
	if err != nil {
		if isCheckViolationError(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("upsert weight observation: %w", err)
	}
	return nil
}

// Get retrieves the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Get(ctx context.Context, day domain.Day) (*domain.WeightObservation, error) {
	query := `
		SELECT day, mass, note
		FROM weight_observations
		WHERE day = $1
	`

	row := s.pool.QueryRow(ctx, query, string(day))

	o, err := scanWeightRow(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get weight observation: %w", err)
	}
	return o, nil
}

// Range retrieves observations within [from, to] (inclusive), ordered by day ASC.
func (s *WeightStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.WeightObservation, error) {
	query := `
		SELECT day, mass, note
		FROM weight_observations
		WHERE day >= $1 AND day <= $2
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("range weight observations: %w", err)
	}
	defer rows.Close()

	var result []*domain.WeightObservation
	for rows.Next() {
		o, err := scanWeightRow(rows)
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
	query := `
		SELECT day, mass, note
		FROM weight_observations
		ORDER BY day DESC
		LIMIT 1
	`

	o, err := scanWeightRow(s.pool.QueryRow(ctx, query))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("latest weight observation: %w", err)
	}
	return o, nil
}

// Delete removes the observation for a day. Returns ErrNotFound if not exists.
func (s *WeightStore) Delete(ctx context.Context, day domain.Day) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM weight_observations WHERE day = $1`, string(day))
	if err != nil {
		return fmt.Errorf("delete weight observation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Count returns the total number of observations stored.
func (s *WeightStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM weight_observations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count weight observations: %w", err)
	}
	return count, nil
}

// scanWeightRow scans a single row into a WeightObservation.
func scanWeightRow(row pgx.Row) (*domain.WeightObservation, error) {
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
