package domain

// Adjustment status values.
const (
	StatusOnTrack         = "on_track"
	StatusMinorCorrection = "minor_correction"
	StatusMajorCorrection = "major_correction"
)

// Adjustment tag values naming the observed deviation.
const (
	TagOnTrack              = "on_track"
	TagLosingTooFast        = "losing_too_fast"
	TagLosingTooSlow        = "losing_too_slow"
	TagGainingTooFast       = "gaining_too_fast"
	TagGainingTooSlow       = "gaining_too_slow"
	TagMaintenanceDriftUp   = "maintenance_drift_up"
	TagMaintenanceDriftDown = "maintenance_drift_down"
)

// AdjustmentRecommendation represents one advisory verdict: how far the
// observed rate deviates from the goal and what to change.
type AdjustmentRecommendation struct {
	AsOf             Day          // day the recommendation was computed for
	Phase            Phase        // phase the verdict was computed under
	Status           string       // on_track | minor_correction | major_correction
	Tag              string       // deviation tag, see Tag* constants
	PercentDeviation float64      // signed deviation from goal rate in percent; 0 for maintaining
	PreviousCalories float64      // daily kcal before the adjustment
	CalorieDelta     float64      // signed daily kcal change, one of 0, ±100, ±150
	Targets          MacroTargets // recomposed prescription after applying the delta
	Rationale        string       // one-sentence explanation comparing actual and goal rates
}
