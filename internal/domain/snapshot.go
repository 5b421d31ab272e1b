package domain

import "time"

// ExpenditureSnapshot represents one persisted estimator run.
// Corresponds to expenditure_snapshots table in ClickHouse; keyed by
// (as_of, window_days) so re-running the same day replaces the row.
type ExpenditureSnapshot struct {
	SnapshotID string    // deterministic hash of as_of + window_days
	AsOf       Day       // last day of the estimation window
	WindowDays int       // window length D in days
	AvgIntake  float64   // mean logged intake over the window (kcal)
	MassChange float64   // smoothed mass change over the window
	Estimated  float64   // estimated daily expenditure (kcal)
	Entries    int       // observation count inside the window
	CreatedAt  time.Time // record creation time
}
