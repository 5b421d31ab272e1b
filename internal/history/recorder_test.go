package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/idhash"
	"metabolic-lab/internal/storage"
	"metabolic-lab/internal/storage/memory"
)

func testEstimate(estimated float64) *energy.Estimate {
	return &energy.Estimate{
		From:       domain.Day("2024-03-01"),
		To:         domain.Day("2024-03-14"),
		WindowDays: 14,
		Entries:    14,
		IntakeDays: 14,
		AvgIntake:  1825.0,
		MassChange: -3.0,
		Estimated:  estimated,
	}
}

func TestRecorder_Capture(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	snap, err := rec.Capture(ctx, testEstimate(2575.0), domain.Day("2024-03-14"))
	require.NoError(t, err)

	assert.Equal(t, idhash.ComputeSnapshotID(domain.Day("2024-03-14"), 14), snap.SnapshotID)
	assert.Equal(t, domain.Day("2024-03-14"), snap.AsOf)
	assert.Equal(t, 14, snap.WindowDays)
	assert.Equal(t, 1825.0, snap.AvgIntake)
	assert.Equal(t, -3.0, snap.MassChange)
	assert.Equal(t, 2575.0, snap.Estimated)
	assert.Equal(t, 14, snap.Entries)
}

func TestRecorder_Capture_Idempotent(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	first, err := rec.Capture(ctx, testEstimate(2575.0), domain.Day("2024-03-14"))
	require.NoError(t, err)

	// Re-capturing the same day keeps the stored snapshot even when
	// the estimate has since moved.
	second, err := rec.Capture(ctx, testEstimate(2600.0), domain.Day("2024-03-14"))
	require.NoError(t, err)
	assert.Equal(t, first.SnapshotID, second.SnapshotID)
	assert.Equal(t, 2575.0, second.Estimated)

	snaps, err := rec.Range(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestRecorder_Capture_Invalid(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	_, err := rec.Capture(ctx, nil, domain.Day("2024-03-14"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = rec.Capture(ctx, testEstimate(2575.0), domain.Day("14-03-2024"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecorder_Range(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	for _, day := range []domain.Day{"2024-03-15", "2024-03-01", "2024-03-08"} {
		_, err := rec.Capture(ctx, testEstimate(2500.0), day)
		require.NoError(t, err)
	}

	snaps, err := rec.Range(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-08"))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, domain.Day("2024-03-01"), snaps[0].AsOf)
	assert.Equal(t, domain.Day("2024-03-08"), snaps[1].AsOf)
}

func TestRecorder_Drift_NoSnapshots(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	_, err := rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestRecorder_Drift_SingleSnapshot(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	_, err := rec.Capture(ctx, testEstimate(2575.0), domain.Day("2024-03-14"))
	require.NoError(t, err)

	drift, err := rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 1, drift.Snapshots)
	assert.Equal(t, 0.0, drift.Change)
	assert.Equal(t, 0.0, drift.PerWeek)
	assert.Equal(t, DriftStable, drift.Direction)
}

func TestRecorder_Drift_AdaptingDown(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	// Expenditure slides 100 kcal over two weeks: -50/week.
	_, err := rec.Capture(ctx, testEstimate(2500.0), domain.Day("2024-03-01"))
	require.NoError(t, err)
	_, err = rec.Capture(ctx, testEstimate(2450.0), domain.Day("2024-03-08"))
	require.NoError(t, err)
	_, err = rec.Capture(ctx, testEstimate(2400.0), domain.Day("2024-03-15"))
	require.NoError(t, err)

	drift, err := rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 3, drift.Snapshots)
	assert.Equal(t, domain.Day("2024-03-01"), drift.From)
	assert.Equal(t, domain.Day("2024-03-15"), drift.To)
	assert.Equal(t, 2500.0, drift.First)
	assert.Equal(t, 2400.0, drift.Last)
	assert.InDelta(t, -100.0, drift.Change, 1e-9)
	assert.InDelta(t, -50.0, drift.PerWeek, 1e-9)
	assert.Equal(t, DriftAdaptingDown, drift.Direction)
}

func TestRecorder_Drift_AdaptingUp(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	_, err := rec.Capture(ctx, testEstimate(2400.0), domain.Day("2024-03-01"))
	require.NoError(t, err)
	_, err = rec.Capture(ctx, testEstimate(2460.0), domain.Day("2024-03-15"))
	require.NoError(t, err)

	drift, err := rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, drift.PerWeek, 1e-9)
	assert.Equal(t, DriftAdaptingUp, drift.Direction)
}

func TestRecorder_Drift_StableSlope(t *testing.T) {
	rec := NewRecorder(memory.NewSnapshotStore())
	ctx := context.Background()

	_, err := rec.Capture(ctx, testEstimate(2500.0), domain.Day("2024-03-01"))
	require.NoError(t, err)
	_, err = rec.Capture(ctx, testEstimate(2520.0), domain.Day("2024-03-15"))
	require.NoError(t, err)

	drift, err := rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, drift.PerWeek, 1e-9)
	assert.Equal(t, DriftStable, drift.Direction)
}

// failingSnapshotStore returns a fixed error from every operation.
type failingSnapshotStore struct {
	err error
}

var _ storage.SnapshotStore = (*failingSnapshotStore)(nil)

func (f *failingSnapshotStore) Insert(ctx context.Context, s *domain.ExpenditureSnapshot) error {
	return f.err
}

func (f *failingSnapshotStore) Get(ctx context.Context, snapshotID string) (*domain.ExpenditureSnapshot, error) {
	return nil, f.err
}

func (f *failingSnapshotStore) Range(ctx context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error) {
	return nil, f.err
}

func (f *failingSnapshotStore) Latest(ctx context.Context) (*domain.ExpenditureSnapshot, error) {
	return nil, f.err
}

func TestRecorder_StorageFailuresPropagate(t *testing.T) {
	errBackend := errors.New("connection refused")
	rec := NewRecorder(&failingSnapshotStore{err: errBackend})
	ctx := context.Background()

	_, err := rec.Capture(ctx, testEstimate(2575.0), domain.Day("2024-03-14"))
	assert.ErrorIs(t, err, errBackend)

	_, err = rec.Range(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	assert.ErrorIs(t, err, errBackend)

	_, err = rec.Drift(ctx, domain.Day("2024-03-01"), domain.Day("2024-03-31"))
	assert.ErrorIs(t, err, errBackend)
}
