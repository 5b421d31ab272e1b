package reporting

import (
	"context"
	"errors"
	"time"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/history"
	"metabolic-lab/internal/insight"
	"metabolic-lab/internal/storage"
)

// DriftLookbackDays bounds the drift section to the trailing quarter
// of captured snapshots.
const DriftLookbackDays = 90

// Generator produces reports from stored data.
type Generator struct {
	composer *insight.Composer
	recorder *history.Recorder // nil without snapshot storage
}

// NewGenerator creates a new report generator.
func NewGenerator(weights storage.WeightStore, intake storage.IntakeStore) *Generator {
	return &Generator{
		composer: insight.NewComposer(weights, intake),
	}
}

// WithSnapshots wires snapshot storage so reports carry the drift
// section.
func (g *Generator) WithSnapshots(store storage.SnapshotStore) *Generator {
	g.composer.WithSnapshots(store)
	g.recorder = history.NewRecorder(store)
	return g
}

// WithEstimator swaps the estimator configuration.
func (g *Generator) WithEstimator(est *energy.Estimator) *Generator {
	g.composer.WithEstimator(est)
	return g
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.composer.WithClock(now)
	return g
}

// Generate composes the current insight and assembles the report.
func (g *Generator) Generate(ctx context.Context, goal domain.GoalConfig, profile domain.Profile, current domain.MacroTargets) (*Report, error) {
	ins, err := g.composer.Compose(ctx, goal, profile, current)
	if err != nil {
		return nil, err
	}

	var drift *history.DriftSummary
	if g.recorder != nil {
		from := ins.AsOf.AddDays(-(DriftLookbackDays - 1))
		drift, err = g.recorder.Drift(ctx, from, ins.AsOf)
		if err != nil && !errors.Is(err, history.ErrNoSnapshots) {
			return nil, err
		}
	}

	return FromInsight(ins, goal, drift), nil
}

// FromInsight maps a composed insight onto the report layout. Callers
// that already hold an insight can render it without composing twice.
func FromInsight(ins *insight.Insight, goal domain.GoalConfig, drift *history.DriftSummary) *Report {
	report := &Report{
		GeneratedAt: ins.GeneratedAt,
		AsOf:        ins.AsOf,
		Status:      ins.Status,
		Goal: GoalSection{
			Phase:      goal.Phase.String(),
			TargetRate: goal.TargetRate,
			ProteinG:   goal.ProteinG,
		},
		Progress: ProgressSection{
			DaysLogged:   ins.DaysLogged,
			DaysRequired: ins.DaysRequired,
		},
		Estimates: EstimateSection{
			Formula: ins.FormulaEstimate,
		},
		Recommendation: ins.Recommendation,
		Drift:          drift,
	}

	if ins.Adaptive != nil {
		report.Estimates.Adaptive = ins.Adaptive.Estimated
		report.Estimates.DivergencePct = ins.DivergencePct
		report.Estimates.AvgIntake = ins.Adaptive.AvgIntake
		report.Estimates.MassChange = ins.Adaptive.MassChange
	}
	if ins.Trend != nil {
		report.Trend = ins.Trend.Series
		report.TrendRate = ins.Trend.RatePerWeek
	}

	return report
}
