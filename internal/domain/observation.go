package domain

// WeightObservation represents one raw morning scale reading.
// Corresponds to weight_observations table; at most one row per day.
type WeightObservation struct {
	Day  Day     // calendar date, PRIMARY KEY
	Mass float64 // body mass in the caller's unit (kg or lb, consistent)
	Note string  // optional free-form annotation
}

// IntakeRecord represents one day's logged energy intake.
// Corresponds to intake_records table; at most one row per day.
type IntakeRecord struct {
	Day      Day     // calendar date, PRIMARY KEY
	Calories float64 // total energy intake in kcal
	ProteinG float64 // protein grams
	CarbsG   float64 // carbohydrate grams
	FatG     float64 // fat grams
}
