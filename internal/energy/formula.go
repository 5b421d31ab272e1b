package energy

import "metabolic-lab/internal/domain"

// BMR computes basal metabolic rate with the Mifflin-St Jeor
// equation. Inputs must already be validated.
func BMR(p domain.Profile) float64 {
	base := 10*p.MassKg + 6.25*p.HeightCm - 5*float64(p.AgeYears)
	if p.Sex == domain.SexMale {
		return base + 5
	}
	return base - 161
}

// Formula computes the formula-based daily expenditure: Mifflin-St
// Jeor BMR scaled by the activity multiplier. This is the estimate
// used before enough history exists for the adaptive one, and the
// baseline adaptive estimates are compared against.
func Formula(p domain.Profile) (float64, error) {
	if err := domain.ValidateProfile(p); err != nil {
		return 0, err
	}
	return BMR(p) * p.Activity.Multiplier(), nil
}
