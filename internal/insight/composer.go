// Package insight assembles the trend, estimate, and recommendation
// pipeline into one read-only result. Nothing in here writes to
// storage.
package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metabolic-lab/internal/advisor"
	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/ledger"
	"metabolic-lab/internal/storage"
)

// Insight status values.
const (
	StatusCollecting = "collecting_data"
	StatusReady      = "ready"
)

// Insight is one aggregated view of the estimation pipeline as of a
// single day.
type Insight struct {
	GeneratedAt time.Time
	AsOf        domain.Day
	Status      string

	DaysLogged   int // observation days inside the window
	DaysRequired int // window length the adaptive estimate needs

	// FormulaEstimate is the Mifflin-St Jeor baseline, present in
	// every state so callers always have a working number.
	FormulaEstimate float64

	// Populated only when Status is StatusReady. Recommendation stays
	// nil until the ledger trend can produce a rate, which needs one
	// more day of history than the estimate window.
	Adaptive       *energy.Estimate
	Trend          *ledger.TrendResult
	DivergencePct  float64 // adaptive vs formula, in percent of formula
	Recommendation *domain.AdjustmentRecommendation

	// LatestSnapshot is the most recent captured snapshot, when a
	// snapshot store is wired and holds one.
	LatestSnapshot *domain.ExpenditureSnapshot
}

// Composer builds insights from stored observations and intake.
type Composer struct {
	weights   storage.WeightStore
	intake    storage.IntakeStore
	snapshots storage.SnapshotStore // optional
	trends    *ledger.Service
	estimator *energy.Estimator
	advisor   *advisor.Advisor
	now       func() time.Time // Injectable clock for deterministic output
}

// NewComposer creates a composer over the given stores.
func NewComposer(weights storage.WeightStore, intake storage.IntakeStore) *Composer {
	return &Composer{
		weights:   weights,
		intake:    intake,
		trends:    ledger.NewService(weights),
		estimator: energy.NewEstimator(),
		advisor:   advisor.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithSnapshots wires a snapshot store so insights carry the latest
// captured snapshot.
func (c *Composer) WithSnapshots(store storage.SnapshotStore) *Composer {
	c.snapshots = store
	return c
}

// WithEstimator swaps the estimator configuration.
func (c *Composer) WithEstimator(est *energy.Estimator) *Composer {
	c.estimator = est
	return c
}

// WithClock sets a custom clock function for deterministic output.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Window returns the observation window a Compose call would read,
// ending at the current day.
func (c *Composer) Window() (from, to domain.Day) {
	to = domain.DayOf(c.now())
	from = to.AddDays(-(c.estimator.Window() - 1))
	return from, to
}

// Compose loads the trailing window ending today and aggregates the
// formula estimate, the adaptive estimate, and the advisor's
// recommendation. While history is short it returns a collecting
// state carrying the formula estimate and a progress count, never a
// partial adaptive estimate. The advisor reads its observed rate from
// the ledger trend over the trailing rate span, which needs one day
// more than the estimate window; until the span is covered the
// insight is ready without a recommendation.
func (c *Composer) Compose(ctx context.Context, goal domain.GoalConfig, profile domain.Profile, current domain.MacroTargets) (*Insight, error) {
	if err := domain.ValidateGoal(goal); err != nil {
		return nil, err
	}
	formula, err := energy.Formula(profile)
	if err != nil {
		return nil, err
	}

	nowT := c.now()
	asOf := domain.DayOf(nowT)
	d := c.estimator.Window()
	from := asOf.AddDays(-(d - 1))

	obsRows, err := c.weights.Range(ctx, from, asOf)
	if err != nil {
		return nil, fmt.Errorf("load observations %s..%s: %w", from, asOf, err)
	}
	intakeRows, err := c.intake.Range(ctx, from, asOf)
	if err != nil {
		return nil, fmt.Errorf("load intake %s..%s: %w", from, asOf, err)
	}

	obs := make([]domain.WeightObservation, len(obsRows))
	for i, o := range obsRows {
		obs[i] = *o
	}
	intake := make([]domain.IntakeRecord, len(intakeRows))
	for i, r := range intakeRows {
		intake[i] = *r
	}

	ins := &Insight{
		GeneratedAt:     nowT,
		AsOf:            asOf,
		DaysLogged:      len(obs),
		DaysRequired:    d,
		FormulaEstimate: formula,
	}

	if c.snapshots != nil {
		latest, err := c.snapshots.Latest(ctx)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load latest snapshot: %w", err)
		}
		if err == nil {
			ins.LatestSnapshot = latest
		}
	}

	est, err := c.estimator.Estimate(obs, intake)
	if errors.Is(err, energy.ErrInsufficientData) {
		ins.Status = StatusCollecting
		return ins, nil
	}
	if err != nil {
		return nil, err
	}

	ins.Status = StatusReady
	ins.Adaptive = est
	ins.DivergencePct = (est.Estimated - formula) / formula * 100

	trendFrom := asOf.AddDays(-ledger.RateSpanDays)
	tr, err := c.trends.DeriveTrend(ctx, trendFrom, asOf, ledger.TrendOptions{Alpha: c.estimator.Alpha})
	if err != nil {
		return nil, fmt.Errorf("derive trend %s..%s: %w", trendFrom, asOf, err)
	}
	ins.Trend = tr

	if tr.RatePerWeek == nil {
		return ins, nil
	}
	rec, err := c.advisor.Advise(asOf, goal, *tr.RatePerWeek, current)
	if err != nil {
		return nil, err
	}
	ins.Recommendation = rec

	return ins, nil
}
