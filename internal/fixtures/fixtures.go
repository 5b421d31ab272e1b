// Package fixtures seeds stores with a deterministic three-week cut:
// mass drifting down about half a unit per week around 82 with
// ordinary scale noise, and a food log averaging 1815 kcal/day.
package fixtures

import (
	"context"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
)

// Fixture date range, inclusive.
const (
	Start domain.Day = "2024-03-01"
	End   domain.Day = "2024-03-21"
)

// Load populates the stores with the fixture dataset.
func Load(ctx context.Context, weights storage.WeightStore, intake storage.IntakeStore) error {
	if err := loadObservations(ctx, weights); err != nil {
		return err
	}
	return loadIntake(ctx, intake)
}

func loadObservations(ctx context.Context, store storage.WeightStore) error {
	observations := []*domain.WeightObservation{
		{Day: "2024-03-01", Mass: 83.1},
		{Day: "2024-03-02", Mass: 82.8},
		{Day: "2024-03-03", Mass: 83.0},
		{Day: "2024-03-04", Mass: 82.6},
		{Day: "2024-03-05", Mass: 82.9, Note: "late weigh-in"},
		{Day: "2024-03-06", Mass: 82.5},
		{Day: "2024-03-07", Mass: 82.4},
		{Day: "2024-03-08", Mass: 82.6},
		{Day: "2024-03-09", Mass: 82.3},
		{Day: "2024-03-10", Mass: 82.5},
		{Day: "2024-03-11", Mass: 82.1},
		{Day: "2024-03-12", Mass: 82.4, Note: "restaurant dinner the night before"},
		{Day: "2024-03-13", Mass: 82.0},
		{Day: "2024-03-14", Mass: 81.9},
		{Day: "2024-03-15", Mass: 82.2},
		{Day: "2024-03-16", Mass: 81.8},
		{Day: "2024-03-17", Mass: 82.0},
		{Day: "2024-03-18", Mass: 81.7},
		{Day: "2024-03-19", Mass: 81.9},
		{Day: "2024-03-20", Mass: 81.5},
		{Day: "2024-03-21", Mass: 81.6},
	}

	for _, o := range observations {
		if err := store.Upsert(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func loadIntake(ctx context.Context, store storage.IntakeStore) error {
	// Calories match the macros exactly (4P + 4C + 9F), the way a
	// tracking app computes them.
	records := []*domain.IntakeRecord{
		{Day: "2024-03-01", Calories: 1835, ProteinG: 175, CarbsG: 160, FatG: 55},
		{Day: "2024-03-02", Calories: 1750, ProteinG: 180, CarbsG: 145, FatG: 50},
		{Day: "2024-03-03", Calories: 1882, ProteinG: 172, CarbsG: 168, FatG: 58},
		{Day: "2024-03-04", Calories: 1797, ProteinG: 178, CarbsG: 152, FatG: 53},
		{Day: "2024-03-05", Calories: 1818, ProteinG: 175, CarbsG: 158, FatG: 54},
		{Day: "2024-03-06", Calories: 1893, ProteinG: 170, CarbsG: 175, FatG: 57},
		{Day: "2024-03-07", Calories: 1747, ProteinG: 182, CarbsG: 140, FatG: 51},
		{Day: "2024-03-08", Calories: 1843, ProteinG: 175, CarbsG: 162, FatG: 55},
		{Day: "2024-03-09", Calories: 1776, ProteinG: 177, CarbsG: 150, FatG: 52},
		{Day: "2024-03-10", Calories: 1860, ProteinG: 173, CarbsG: 166, FatG: 56},
		{Day: "2024-03-11", Calories: 1762, ProteinG: 180, CarbsG: 148, FatG: 50},
		{Day: "2024-03-12", Calories: 1831, ProteinG: 174, CarbsG: 160, FatG: 55},
		{Day: "2024-03-13", Calories: 1814, ProteinG: 176, CarbsG: 156, FatG: 54},
		{Day: "2024-03-14", Calories: 1877, ProteinG: 171, CarbsG: 170, FatG: 57},
		{Day: "2024-03-15", Calories: 1759, ProteinG: 179, CarbsG: 146, FatG: 51},
		{Day: "2024-03-16", Calories: 1839, ProteinG: 175, CarbsG: 161, FatG: 55},
		{Day: "2024-03-17", Calories: 1784, ProteinG: 178, CarbsG: 151, FatG: 52},
		{Day: "2024-03-18", Calories: 1869, ProteinG: 172, CarbsG: 167, FatG: 57},
		{Day: "2024-03-19", Calories: 1742, ProteinG: 181, CarbsG: 142, FatG: 50},
		{Day: "2024-03-20", Calories: 1856, ProteinG: 175, CarbsG: 163, FatG: 56},
		{Day: "2024-03-21", Calories: 1801, ProteinG: 174, CarbsG: 157, FatG: 53},
	}

	for _, r := range records {
		if err := store.Upsert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
