package domain

// Sex represents biological sex for the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// IsValid checks if the sex is a valid value.
func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// Activity represents a habitual activity level. Each maps to a fixed
// multiplier applied on top of BMR.
type Activity string

const (
	ActivitySedentary  Activity = "sedentary"   // little or no exercise
	ActivityLight      Activity = "light"       // 1-3 days/week
	ActivityModerate   Activity = "moderate"    // 3-5 days/week
	ActivityActive     Activity = "active"      // 6-7 days/week
	ActivityVeryActive Activity = "very_active" // physical job or 2x training
)

// Multiplier returns the activity factor, 0 for unknown values.
func (a Activity) Multiplier() float64 {
	switch a {
	case ActivitySedentary:
		return 1.2
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	}
	return 0
}

// IsValid checks if the activity level is a valid value.
func (a Activity) IsValid() bool {
	return a.Multiplier() != 0
}

// Profile represents the static inputs to the formula-based
// expenditure estimate.
type Profile struct {
	Sex      Sex      // male | female
	AgeYears int      // age in whole years
	HeightCm float64  // height in centimeters
	MassKg   float64  // current body mass in kilograms
	Activity Activity // habitual activity level
}
