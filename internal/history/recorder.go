// Package history persists expenditure snapshots so metabolic
// adaptation over months stays visible after the daily logs scroll
// past the estimation window.
package history

import (
	"context"
	"errors"
	"fmt"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/idhash"
	"metabolic-lab/internal/storage"
)

// ErrNoSnapshots indicates a drift query over a range holding no
// captured snapshots.
var ErrNoSnapshots = errors.New("no snapshots in range")

// DriftStablePerWeek is the absolute weekly slope below which the
// estimate reads as stable.
const DriftStablePerWeek = 25.0

// Drift direction labels.
const (
	DriftAdaptingDown = "adapting_down"
	DriftAdaptingUp   = "adapting_up"
	DriftStable       = "stable"
)

// DriftSummary describes how the estimated expenditure moved between
// the first and last snapshot of a range.
type DriftSummary struct {
	From      domain.Day // as_of of the earliest snapshot
	To        domain.Day // as_of of the latest snapshot
	First     float64    // earliest estimated expenditure (kcal/day)
	Last      float64    // latest estimated expenditure (kcal/day)
	Change    float64    // Last - First
	PerWeek   float64    // change normalized to kcal/week; 0 for a single snapshot
	Direction string     // DriftAdaptingDown, DriftAdaptingUp, or DriftStable
	Snapshots int        // snapshots inside the range
}

// Recorder captures expenditure estimates into snapshot storage.
type Recorder struct {
	store storage.SnapshotStore
}

// NewRecorder creates a recorder over the given snapshot store.
func NewRecorder(store storage.SnapshotStore) *Recorder {
	return &Recorder{store: store}
}

// Capture persists an estimate as of the given day. The snapshot ID
// derives from (asOf, windowDays), so capturing the same day twice
// returns the already-stored snapshot instead of inserting a second
// row.
func (r *Recorder) Capture(ctx context.Context, est *energy.Estimate, asOf domain.Day) (*domain.ExpenditureSnapshot, error) {
	if est == nil {
		return nil, fmt.Errorf("nil estimate: %w", domain.ErrValidation)
	}
	if _, err := domain.ParseDay(string(asOf)); err != nil {
		return nil, err
	}

	snap := &domain.ExpenditureSnapshot{
		SnapshotID: idhash.ComputeSnapshotID(asOf, est.WindowDays),
		AsOf:       asOf,
		WindowDays: est.WindowDays,
		AvgIntake:  est.AvgIntake,
		MassChange: est.MassChange,
		Estimated:  est.Estimated,
		Entries:    est.Entries,
	}

	err := r.store.Insert(ctx, snap)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := r.store.Get(ctx, snap.SnapshotID)
		if getErr != nil {
			return nil, fmt.Errorf("load existing snapshot %s: %w", snap.SnapshotID, getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("capture snapshot %s: %w", snap.SnapshotID, err)
	}
	return snap, nil
}

// Range returns snapshots with as_of within [from, to], ascending.
func (r *Recorder) Range(ctx context.Context, from, to domain.Day) ([]*domain.ExpenditureSnapshot, error) {
	snaps, err := r.store.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load snapshots %s..%s: %w", from, to, err)
	}
	return snaps, nil
}

// Drift summarizes the estimate's movement across [from, to]. A range
// with a single snapshot reads as stable with zero slope. Returns
// ErrNoSnapshots when nothing was captured in the range.
func (r *Recorder) Drift(ctx context.Context, from, to domain.Day) (*DriftSummary, error) {
	snaps, err := r.Range(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%s..%s: %w", from, to, ErrNoSnapshots)
	}

	first, last := snaps[0], snaps[len(snaps)-1]
	change := last.Estimated - first.Estimated

	var perWeek float64
	if days := domain.DaysBetween(first.AsOf, last.AsOf); days > 0 {
		perWeek = change / float64(days) * 7
	}

	return &DriftSummary{
		From:      first.AsOf,
		To:        last.AsOf,
		First:     first.Estimated,
		Last:      last.Estimated,
		Change:    change,
		PerWeek:   perWeek,
		Direction: driftDirection(perWeek),
		Snapshots: len(snaps),
	}, nil
}

// driftDirection classifies a weekly expenditure slope.
func driftDirection(perWeek float64) string {
	switch {
	case perWeek <= -DriftStablePerWeek:
		return DriftAdaptingDown
	case perWeek >= DriftStablePerWeek:
		return DriftAdaptingUp
	default:
		return DriftStable
	}
}
