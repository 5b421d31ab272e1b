package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation indicates malformed caller input. Callers detect it
// with errors.Is; the wrapped message names the offending field.
var ErrValidation = errors.New("validation failed")

// Accepted body mass range. Wide enough for kg and lb users.
const (
	MinMass = 20.0
	MaxMass = 700.0
)

// MaxDailyCalories bounds a single day's logged intake.
const MaxDailyCalories = 20000.0

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateObservation checks a scale reading before it is stored.
func ValidateObservation(o WeightObservation) error {
	if _, err := ParseDay(string(o.Day)); err != nil {
		return err
	}
	if !finite(o.Mass) {
		return fmt.Errorf("mass must be finite: %w", ErrValidation)
	}
	if o.Mass < MinMass || o.Mass > MaxMass {
		return fmt.Errorf("mass %.2f outside [%.0f, %.0f]: %w", o.Mass, MinMass, MaxMass, ErrValidation)
	}
	return nil
}

// ValidateIntake checks a logged intake day before it is stored.
func ValidateIntake(r IntakeRecord) error {
	if _, err := ParseDay(string(r.Day)); err != nil {
		return err
	}
	if !finite(r.Calories) || r.Calories < 0 || r.Calories > MaxDailyCalories {
		return fmt.Errorf("calories %.1f outside [0, %.0f]: %w", r.Calories, MaxDailyCalories, ErrValidation)
	}
	for _, g := range []struct {
		name string
		v    float64
	}{
		{"protein_g", r.ProteinG},
		{"carbs_g", r.CarbsG},
		{"fat_g", r.FatG},
	} {
		if !finite(g.v) || g.v < 0 {
			return fmt.Errorf("%s must be a non-negative finite number: %w", g.name, ErrValidation)
		}
	}
	return nil
}

// ValidateGoal checks a goal configuration. The target rate sign must
// agree with the phase so deviation math never divides by zero.
func ValidateGoal(g GoalConfig) error {
	if !g.Phase.IsValid() {
		return fmt.Errorf("phase %q: %w", g.Phase, ErrValidation)
	}
	if !finite(g.TargetRate) {
		return fmt.Errorf("target rate must be finite: %w", ErrValidation)
	}
	switch g.Phase {
	case PhaseReducing, PhaseRecomposition:
		if g.TargetRate >= 0 {
			return fmt.Errorf("%s phase requires a negative target rate, got %.2f: %w", g.Phase, g.TargetRate, ErrValidation)
		}
	case PhaseIncreasing:
		if g.TargetRate <= 0 {
			return fmt.Errorf("increasing phase requires a positive target rate, got %.2f: %w", g.TargetRate, ErrValidation)
		}
	case PhaseMaintaining:
		if g.TargetRate != 0 {
			return fmt.Errorf("maintaining phase requires a zero target rate, got %.2f: %w", g.TargetRate, ErrValidation)
		}
	}
	if !finite(g.ProteinG) || g.ProteinG < 0 {
		return fmt.Errorf("protein grams must be a non-negative finite number: %w", ErrValidation)
	}
	if !finite(g.EnergyPerUnit) || g.EnergyPerUnit < 0 {
		return fmt.Errorf("energy per unit must be a non-negative finite number: %w", ErrValidation)
	}
	return nil
}

// ValidateProfile checks formula estimator inputs.
func ValidateProfile(p Profile) error {
	if !p.Sex.IsValid() {
		return fmt.Errorf("sex %q: %w", p.Sex, ErrValidation)
	}
	if p.AgeYears < 10 || p.AgeYears > 120 {
		return fmt.Errorf("age %d outside [10, 120]: %w", p.AgeYears, ErrValidation)
	}
	if !finite(p.HeightCm) || p.HeightCm < 100 || p.HeightCm > 250 {
		return fmt.Errorf("height %.1f outside [100, 250] cm: %w", p.HeightCm, ErrValidation)
	}
	if !finite(p.MassKg) || p.MassKg < MinMass || p.MassKg > 350 {
		return fmt.Errorf("mass %.1f outside [%.0f, 350] kg: %w", p.MassKg, MinMass, ErrValidation)
	}
	if !p.Activity.IsValid() {
		return fmt.Errorf("activity %q: %w", p.Activity, ErrValidation)
	}
	return nil
}
