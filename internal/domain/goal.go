package domain

import "fmt"

// Phase represents the current dieting phase.
type Phase string

const (
	PhaseReducing      Phase = "reducing"
	PhaseMaintaining   Phase = "maintaining"
	PhaseIncreasing    Phase = "increasing"
	PhaseRecomposition Phase = "recomposition"
)

// ParsePhase validates a phase string.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.IsValid() {
		return "", fmt.Errorf("phase %q: %w", s, ErrValidation)
	}
	return p, nil
}

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsValid checks if the phase is a valid value.
func (p Phase) IsValid() bool {
	return p == PhaseReducing || p == PhaseMaintaining || p == PhaseIncreasing || p == PhaseRecomposition
}

// Energy content per gram of each macronutrient (kcal).
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0
)

// DefaultEnergyPerUnit is the energy equivalent of one unit of body
// mass in kcal (3500 kcal per pound of tissue).
const DefaultEnergyPerUnit = 3500.0

// GoalConfig represents the active goal a person is working toward.
type GoalConfig struct {
	Phase         Phase   // reducing | maintaining | increasing | recomposition
	TargetRate    float64 // desired mass change in units/week, sign carries direction
	ProteinG      float64 // fixed daily protein grams, never adjusted
	EnergyPerUnit float64 // kcal per unit of mass; 0 means DefaultEnergyPerUnit
}

// MacroTargets represents a daily calorie and macronutrient prescription.
type MacroTargets struct {
	Calories float64 // total daily kcal, always 4P + 4C + 9F
	ProteinG float64 // protein grams
	CarbsG   float64 // carbohydrate grams
	FatG     float64 // fat grams
	Capped   bool    // true when a downward adjustment floored carbs at zero
}

// MacroCalories returns the energy content of a macro split in kcal.
func MacroCalories(proteinG, carbsG, fatG float64) float64 {
	return proteinG*KcalPerGramProtein + carbsG*KcalPerGramCarbs + fatG*KcalPerGramFat
}

// NewMacroTargets builds a prescription with calories derived from the
// macros so the total is always consistent.
func NewMacroTargets(proteinG, carbsG, fatG float64) MacroTargets {
	return MacroTargets{
		Calories: MacroCalories(proteinG, carbsG, fatG),
		ProteinG: proteinG,
		CarbsG:   carbsG,
		FatG:     fatG,
	}
}
