// Package advisor turns the gap between observed and desired rate of
// mass change into a bounded calorie adjustment. Corrections are
// deliberately small and stepped; the adaptive estimate absorbs the
// rest over following windows.
package advisor

import (
	"fmt"
	"math"

	"metabolic-lab/internal/domain"
)

// Deviation bands in percent of the goal rate.
const (
	OnTrackPct = 20.0 // |deviation| <= 20% counts as on track
	MinorPct   = 50.0 // <= 50% gets a minor correction, beyond that a major one
)

// Correction step sizes in kcal/day.
const (
	MinorDelta = 100.0
	MajorDelta = 150.0
)

// Maintenance bands in absolute mass units/week, used instead of
// percent math when the goal rate is zero.
const (
	MaintOnTrackRate = 0.25
	MaintMinorRate   = 0.5
)

// Advisor classifies rate deviation and recomposes macro targets.
// The zero value uses the default bands.
type Advisor struct{}

// New returns an Advisor with the default bands.
func New() *Advisor {
	return &Advisor{}
}

// Advise classifies how far actualRate strays from the goal and
// returns the correction plus recomposed targets. Protein is pinned
// to the goal, fat is carried from the current targets, and the
// whole calorie delta lands on carbs. Carbs floor at zero; when the
// floor bites, the returned targets are marked Capped and calories
// reflect the macros actually prescribed. The recommendation carries
// the pre-adjustment calories and a one-sentence rationale alongside
// the machine-readable tag.
func (a *Advisor) Advise(asOf domain.Day, goal domain.GoalConfig, actualRate float64, current domain.MacroTargets) (*domain.AdjustmentRecommendation, error) {
	if err := domain.ValidateGoal(goal); err != nil {
		return nil, err
	}
	if math.IsNaN(actualRate) || math.IsInf(actualRate, 0) {
		return nil, fmt.Errorf("actual rate must be finite: %w", domain.ErrValidation)
	}

	var (
		status string
		tag    string
		devPct float64
		delta  float64
	)

	if goal.Phase == domain.PhaseMaintaining {
		status, tag, delta = classifyMaintenance(actualRate)
	} else {
		devPct = (actualRate - goal.TargetRate) / math.Abs(goal.TargetRate) * 100
		status, tag, delta = classifyDeviation(goal.Phase, devPct)
	}

	targets := recompose(goal, current, delta)
	rec := &domain.AdjustmentRecommendation{
		AsOf:             asOf,
		Phase:            goal.Phase,
		Status:           status,
		Tag:              tag,
		PercentDeviation: devPct,
		PreviousCalories: current.Calories,
		CalorieDelta:     delta,
		Targets:          targets,
		Rationale:        rationale(goal, actualRate, delta, current.Calories, targets.Calories),
	}
	return rec, nil
}

// classifyDeviation maps a signed percent deviation to a verdict for
// every phase with a nonzero goal rate.
func classifyDeviation(phase domain.Phase, devPct float64) (status, tag string, delta float64) {
	abs := math.Abs(devPct)
	switch {
	case abs <= OnTrackPct:
		return domain.StatusOnTrack, domain.TagOnTrack, 0
	case abs <= MinorPct:
		status, delta = domain.StatusMinorCorrection, MinorDelta
	default:
		status, delta = domain.StatusMajorCorrection, MajorDelta
	}

	// Reducing and recomposition share polarity: a negative deviation
	// means mass is falling faster than planned, so calories go up.
	// Increasing mirrors it.
	losing := phase == domain.PhaseReducing || phase == domain.PhaseRecomposition
	switch {
	case losing && devPct < 0:
		tag = domain.TagLosingTooFast
	case losing:
		tag, delta = domain.TagLosingTooSlow, -delta
	case devPct > 0:
		tag, delta = domain.TagGainingTooFast, -delta
	default:
		tag = domain.TagGainingTooSlow
	}
	return status, tag, delta
}

// classifyMaintenance uses absolute rate bands so a zero goal rate
// never reaches the percent math.
func classifyMaintenance(actualRate float64) (status, tag string, delta float64) {
	abs := math.Abs(actualRate)
	switch {
	case abs <= MaintOnTrackRate:
		return domain.StatusOnTrack, domain.TagOnTrack, 0
	case abs <= MaintMinorRate:
		status, delta = domain.StatusMinorCorrection, MinorDelta
	default:
		status, delta = domain.StatusMajorCorrection, MajorDelta
	}
	if actualRate > 0 {
		return status, domain.TagMaintenanceDriftUp, -delta
	}
	return status, domain.TagMaintenanceDriftDown, delta
}

// recompose applies the calorie delta to the carb allotment, keeping
// protein at the goal value and fat unchanged.
func recompose(goal domain.GoalConfig, current domain.MacroTargets, delta float64) domain.MacroTargets {
	carbs := current.CarbsG + delta/domain.KcalPerGramCarbs
	capped := false
	if carbs < 0 {
		carbs = 0
		capped = true
	}
	targets := domain.NewMacroTargets(goal.ProteinG, carbs, current.FatG)
	targets.Capped = capped
	return targets
}

// rationale renders the explanation carried on every recommendation:
// the observed rate against the goal rate, then the calorie target
// that follows from the verdict.
func rationale(goal domain.GoalConfig, actualRate, delta, prevCal, newCal float64) string {
	observed := fmt.Sprintf("observed rate %+.2f units/week against a goal of %+.2f units/week", actualRate, goal.TargetRate)
	if goal.Phase == domain.PhaseMaintaining {
		observed = fmt.Sprintf("observed rate %+.2f units/week against a maintenance goal", actualRate)
	}
	switch {
	case delta == 0:
		return fmt.Sprintf("%s: on track, keeping the daily target at %.0f kcal", observed, newCal)
	case delta > 0:
		return fmt.Sprintf("%s: raising the daily target from %.0f to %.0f kcal", observed, prevCal, newCal)
	default:
		return fmt.Sprintf("%s: lowering the daily target from %.0f to %.0f kcal", observed, prevCal, newCal)
	}
}
