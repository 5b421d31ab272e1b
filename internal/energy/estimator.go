// Package energy estimates daily energy expenditure. The adaptive
// estimator back-calculates it from observed mass change against
// logged intake; the formula estimator provides the day-one baseline.
package energy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/trend"
)

// ErrInsufficientData indicates the observation window is not yet
// full. It is an expected state while history accumulates, not a
// failure.
var ErrInsufficientData = errors.New("insufficient data for estimation")

// DefaultWindowDays is the estimation window length D.
const DefaultWindowDays = 14

// Estimator back-calculates daily expenditure over a trailing window:
//
//	estimated = avgIntake - massChange*energyPerUnit/windowDays
//
// where massChange is taken from the exponentially smoothed series.
type Estimator struct {
	WindowDays    int     // window length D; 0 means DefaultWindowDays
	Alpha         float64 // smoothing factor; 0 means trend.DefaultAlpha
	EnergyPerUnit float64 // kcal per unit mass; 0 means domain.DefaultEnergyPerUnit
}

// NewEstimator returns an estimator with default parameters.
func NewEstimator() *Estimator {
	return &Estimator{
		WindowDays:    DefaultWindowDays,
		Alpha:         trend.DefaultAlpha,
		EnergyPerUnit: domain.DefaultEnergyPerUnit,
	}
}

// Estimate represents one adaptive expenditure calculation. The
// estimate is reported as computed; plausibility bounds are the
// caller's concern.
type Estimate struct {
	From       domain.Day         // first day of the window
	To         domain.Day         // last day of the window
	WindowDays int                // configured window length D
	Entries    int                // observations inside the window
	IntakeDays int                // intake records inside the window
	AvgIntake  float64            // mean logged intake (kcal/day)
	MassChange float64            // smoothed mass change over the window
	Estimated  float64            // estimated daily expenditure, rounded to whole kcal
	Trend      domain.TrendSeries // smoothed series the estimate was read from
}

// Window returns the effective window length D.
func (e *Estimator) Window() int {
	if e.WindowDays <= 0 {
		return DefaultWindowDays
	}
	return e.WindowDays
}

func (e *Estimator) alpha() float64 {
	if e.Alpha == 0 {
		return trend.DefaultAlpha
	}
	return e.Alpha
}

func (e *Estimator) energyPerUnit() float64 {
	if e.EnergyPerUnit <= 0 {
		return domain.DefaultEnergyPerUnit
	}
	return e.EnergyPerUnit
}

// Estimate runs the back-calculation over the trailing window of the
// given history. Observations and intake may arrive unsorted; the
// latest windowDays observations are used. A negative window or an
// alpha outside (0, 1] is a validation error, never coerced. Returns
// ErrInsufficientData until the window is full and at least one
// intake record falls inside it.
func (e *Estimator) Estimate(obs []domain.WeightObservation, intake []domain.IntakeRecord) (*Estimate, error) {
	if e.WindowDays < 0 {
		return nil, fmt.Errorf("window days %d must not be negative: %w", e.WindowDays, domain.ErrValidation)
	}
	if e.Alpha < 0 || e.Alpha > 1 {
		return nil, fmt.Errorf("alpha %.3f outside (0, 1]: %w", e.Alpha, domain.ErrValidation)
	}

	d := e.Window()
	if len(obs) < d {
		return nil, fmt.Errorf("%d of %d observation days: %w", len(obs), d, ErrInsufficientData)
	}

	sorted := make([]domain.WeightObservation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })
	window := sorted[len(sorted)-d:]

	points := make([]domain.TrendPoint, len(window))
	for i, o := range window {
		points[i] = domain.TrendPoint{Day: o.Day, Raw: o.Mass}
	}
	series := trend.Smooth(points, e.alpha())

	from, to := window[0].Day, window[len(window)-1].Day
	var intakeSum float64
	var intakeDays int
	for _, r := range intake {
		if r.Day < from || r.Day > to {
			continue
		}
		intakeSum += r.Calories
		intakeDays++
	}
	if intakeDays == 0 {
		return nil, fmt.Errorf("no intake logged between %s and %s: %w", from, to, ErrInsufficientData)
	}

	avgIntake := intakeSum / float64(intakeDays)
	massChange := series.MassChange()
	estimated := avgIntake - massChange*e.energyPerUnit()/float64(d)

	return &Estimate{
		From:       from,
		To:         to,
		WindowDays: d,
		Entries:    len(window),
		IntakeDays: intakeDays,
		AvgIntake:  avgIntake,
		MassChange: massChange,
		Estimated:  math.Round(estimated),
		Trend:      series,
	}, nil
}
