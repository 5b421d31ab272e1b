package reporting

import (
	"time"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/history"
)

// Report represents the progress report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	AsOf        domain.Day
	Status      string // collecting_data | ready

	// Goal under evaluation
	Goal GoalSection

	// Window progress
	Progress ProgressSection

	// Estimates (adaptive fields stay zero while collecting)
	Estimates EstimateSection

	// Trend rows, ascending by day (empty while collecting)
	Trend domain.TrendSeries

	// Observed weekly rate from the ledger trend (nil until the rate
	// span is covered)
	TrendRate *float64

	// Recommendation (nil while collecting or while the rate span is
	// still short)
	Recommendation *domain.AdjustmentRecommendation

	// Drift across captured snapshots (nil without snapshot history)
	Drift *history.DriftSummary
}

// GoalSection describes the goal the report was computed against.
type GoalSection struct {
	Phase      string
	TargetRate float64 // units/week, sign carries direction
	ProteinG   float64 // pinned daily protein grams
}

// ProgressSection tracks how much of the observation window is filled.
type ProgressSection struct {
	DaysLogged   int
	DaysRequired int
}

// EstimateSection carries both expenditure estimates side by side.
type EstimateSection struct {
	Formula       float64 // Mifflin-St Jeor baseline (kcal/day)
	Adaptive      float64 // back-calculated estimate (kcal/day), 0 while collecting
	DivergencePct float64 // adaptive vs formula in percent of formula
	AvgIntake     float64 // mean logged intake across the window
	MassChange    float64 // smoothed mass change across the window
}
