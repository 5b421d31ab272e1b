package advisor

import (
	"errors"
	"math"
	"testing"

	"metabolic-lab/internal/domain"
)

const asOf = domain.Day("2025-03-15")

func baseTargets() domain.MacroTargets {
	return domain.NewMacroTargets(160, 150, 60)
}

func TestAdviseReducing(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}

	tests := []struct {
		name       string
		actualRate float64
		wantStatus string
		wantTag    string
		wantDelta  float64
	}{
		{"exactly on goal", -0.5, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"fast edge of on track", -0.6, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"slow edge of on track", -0.4, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"slightly too fast", -0.65, domain.StatusMinorCorrection, domain.TagLosingTooFast, 100},
		{"minor edge too fast", -0.75, domain.StatusMinorCorrection, domain.TagLosingTooFast, 100},
		{"far too fast", -0.8, domain.StatusMajorCorrection, domain.TagLosingTooFast, 150},
		{"slightly too slow", -0.3, domain.StatusMinorCorrection, domain.TagLosingTooSlow, -100},
		{"minor edge too slow", -0.25, domain.StatusMinorCorrection, domain.TagLosingTooSlow, -100},
		{"far too slow", -0.2, domain.StatusMajorCorrection, domain.TagLosingTooSlow, -150},
		{"gaining during a cut", 0.1, domain.StatusMajorCorrection, domain.TagLosingTooSlow, -150},
		{"stalled", 0, domain.StatusMajorCorrection, domain.TagLosingTooSlow, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New().Advise(asOf, goal, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if rec.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", rec.Status, tt.wantStatus)
			}
			if rec.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", rec.Tag, tt.wantTag)
			}
			if rec.CalorieDelta != tt.wantDelta {
				t.Errorf("CalorieDelta = %v, want %v", rec.CalorieDelta, tt.wantDelta)
			}
		})
	}
}

func TestAdviseIncreasing(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseIncreasing, TargetRate: 0.25, ProteinG: 150}

	tests := []struct {
		name       string
		actualRate float64
		wantStatus string
		wantTag    string
		wantDelta  float64
	}{
		{"on goal", 0.25, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"fast edge of on track", 0.3, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"gaining too fast minor", 0.35, domain.StatusMinorCorrection, domain.TagGainingTooFast, -100},
		{"gaining too fast major", 0.5, domain.StatusMajorCorrection, domain.TagGainingTooFast, -150},
		{"gaining too slow minor", 0.15, domain.StatusMinorCorrection, domain.TagGainingTooSlow, 100},
		{"gaining too slow major", 0.1, domain.StatusMajorCorrection, domain.TagGainingTooSlow, 150},
		{"losing during a gain", -0.2, domain.StatusMajorCorrection, domain.TagGainingTooSlow, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New().Advise(asOf, goal, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if rec.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", rec.Status, tt.wantStatus)
			}
			if rec.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", rec.Tag, tt.wantTag)
			}
			if rec.CalorieDelta != tt.wantDelta {
				t.Errorf("CalorieDelta = %v, want %v", rec.CalorieDelta, tt.wantDelta)
			}
		})
	}
}

func TestAdviseMaintaining(t *testing.T) {
	// The zero target rate must never reach the percent division.
	goal := domain.GoalConfig{Phase: domain.PhaseMaintaining, TargetRate: 0, ProteinG: 140}

	tests := []struct {
		name       string
		actualRate float64
		wantStatus string
		wantTag    string
		wantDelta  float64
	}{
		{"dead stable", 0, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"inside band up", 0.25, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"inside band down", -0.25, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"drift up minor", 0.4, domain.StatusMinorCorrection, domain.TagMaintenanceDriftUp, -100},
		{"drift up minor edge", 0.5, domain.StatusMinorCorrection, domain.TagMaintenanceDriftUp, -100},
		{"drift up major", 0.6, domain.StatusMajorCorrection, domain.TagMaintenanceDriftUp, -150},
		{"drift down minor", -0.4, domain.StatusMinorCorrection, domain.TagMaintenanceDriftDown, 100},
		{"drift down major", -0.6, domain.StatusMajorCorrection, domain.TagMaintenanceDriftDown, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New().Advise(asOf, goal, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if rec.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", rec.Status, tt.wantStatus)
			}
			if rec.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", rec.Tag, tt.wantTag)
			}
			if rec.CalorieDelta != tt.wantDelta {
				t.Errorf("CalorieDelta = %v, want %v", rec.CalorieDelta, tt.wantDelta)
			}
			if rec.PercentDeviation != 0 {
				t.Errorf("PercentDeviation = %v, want 0 for maintaining", rec.PercentDeviation)
			}
		})
	}
}

func TestAdviseRecomposition(t *testing.T) {
	// Recomposition targets a slow loss and must classify exactly
	// like reducing does.
	goal := domain.GoalConfig{Phase: domain.PhaseRecomposition, TargetRate: -0.25, ProteinG: 170}

	tests := []struct {
		name       string
		actualRate float64
		wantStatus string
		wantTag    string
		wantDelta  float64
	}{
		{"on goal", -0.25, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"fast edge of on track", -0.3, domain.StatusOnTrack, domain.TagOnTrack, 0},
		{"losing too fast minor", -0.35, domain.StatusMinorCorrection, domain.TagLosingTooFast, 100},
		{"losing too fast major", -0.4, domain.StatusMajorCorrection, domain.TagLosingTooFast, 150},
		{"losing too slow minor", -0.15, domain.StatusMinorCorrection, domain.TagLosingTooSlow, -100},
		{"gaining during recomposition", 0.1, domain.StatusMajorCorrection, domain.TagLosingTooSlow, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New().Advise(asOf, goal, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if rec.Phase != domain.PhaseRecomposition {
				t.Errorf("Phase = %q, want %q", rec.Phase, domain.PhaseRecomposition)
			}
			if rec.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", rec.Status, tt.wantStatus)
			}
			if rec.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", rec.Tag, tt.wantTag)
			}
			if rec.CalorieDelta != tt.wantDelta {
				t.Errorf("CalorieDelta = %v, want %v", rec.CalorieDelta, tt.wantDelta)
			}
		})
	}
}

func TestAdvisePercentDeviation(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}

	rec, err := New().Advise(asOf, goal, -0.75, baseTargets())
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if math.Abs(rec.PercentDeviation-(-50)) > 1e-9 {
		t.Errorf("PercentDeviation = %v, want -50", rec.PercentDeviation)
	}
}

func TestAdviseSignSwapSymmetry(t *testing.T) {
	// Negating goal and actual rate while flipping the phase between
	// reducing and increasing must preserve the verdict magnitude and
	// only flip the correction direction and the tag family.
	mirrorTag := map[string]string{
		domain.TagOnTrack:       domain.TagOnTrack,
		domain.TagLosingTooFast: domain.TagGainingTooFast,
		domain.TagLosingTooSlow: domain.TagGainingTooSlow,
	}

	tests := []struct {
		name       string
		goalRate   float64
		actualRate float64
	}{
		{"on goal", 0.5, 0.5},
		{"minor too fast", 0.5, 0.65},
		{"major too fast", 0.5, 0.9},
		{"minor too slow", 0.5, 0.3},
		{"major too slow", 0.5, 0.1},
		{"wrong direction", 0.5, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reducing := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -tt.goalRate, ProteinG: 160}
			increasing := domain.GoalConfig{Phase: domain.PhaseIncreasing, TargetRate: tt.goalRate, ProteinG: 160}

			red, err := New().Advise(asOf, reducing, -tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise(reducing) error = %v", err)
			}
			inc, err := New().Advise(asOf, increasing, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise(increasing) error = %v", err)
			}

			if red.Status != inc.Status {
				t.Errorf("Status = %q vs %q, want equal", red.Status, inc.Status)
			}
			if mirrorTag[red.Tag] != inc.Tag {
				t.Errorf("Tag = %q vs %q, want mirrored", red.Tag, inc.Tag)
			}
			if red.CalorieDelta != -inc.CalorieDelta {
				t.Errorf("CalorieDelta = %v vs %v, want negated", red.CalorieDelta, inc.CalorieDelta)
			}
			if math.Abs(red.PercentDeviation+inc.PercentDeviation) > 1e-9 {
				t.Errorf("PercentDeviation = %v vs %v, want negated", red.PercentDeviation, inc.PercentDeviation)
			}
		})
	}
}

func TestAdviseAppliesDeltaToCarbs(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}

	// Slow loss: -100 kcal lands on carbs as -25 g.
	rec, err := New().Advise(asOf, goal, -0.3, baseTargets())
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if rec.Targets.CarbsG != 125 {
		t.Errorf("CarbsG = %v, want 125", rec.Targets.CarbsG)
	}
	if rec.Targets.ProteinG != 160 {
		t.Errorf("ProteinG = %v, want unchanged 160", rec.Targets.ProteinG)
	}
	if rec.Targets.FatG != 60 {
		t.Errorf("FatG = %v, want unchanged 60", rec.Targets.FatG)
	}
	if rec.Targets.Capped {
		t.Error("Capped = true, want false")
	}
	wantCal := domain.MacroCalories(160, 125, 60)
	if rec.Targets.Calories != wantCal {
		t.Errorf("Calories = %v, want %v", rec.Targets.Calories, wantCal)
	}
}

func TestAdviseCarbFloor(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}
	low := domain.NewMacroTargets(160, 20, 60) // -150 kcal would need 37.5 g of carbs

	rec, err := New().Advise(asOf, goal, -0.2, low)
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if rec.CalorieDelta != -150 {
		t.Fatalf("CalorieDelta = %v, want -150", rec.CalorieDelta)
	}
	if rec.Targets.CarbsG != 0 {
		t.Errorf("CarbsG = %v, want floored to 0", rec.Targets.CarbsG)
	}
	if !rec.Targets.Capped {
		t.Error("Capped = false, want true")
	}
	wantCal := domain.MacroCalories(160, 0, 60)
	if rec.Targets.Calories != wantCal {
		t.Errorf("Calories = %v, want %v from actual macros", rec.Targets.Calories, wantCal)
	}
}

func TestAdvisePinsProteinToGoal(t *testing.T) {
	goal := domain.GoalConfig{Phase: domain.PhaseMaintaining, TargetRate: 0, ProteinG: 170}
	current := domain.NewMacroTargets(120, 200, 70) // stale protein

	rec, err := New().Advise(asOf, goal, 0, current)
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if rec.Targets.ProteinG != 170 {
		t.Errorf("ProteinG = %v, want goal value 170", rec.Targets.ProteinG)
	}
	if rec.Targets.Calories != domain.MacroCalories(170, 200, 70) {
		t.Errorf("Calories = %v not recomputed from macros", rec.Targets.Calories)
	}
}

func TestAdviseRationale(t *testing.T) {
	// baseTargets carries 1780 kcal (160p/150c/60f).
	reducing := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}
	maintaining := domain.GoalConfig{Phase: domain.PhaseMaintaining, TargetRate: 0, ProteinG: 160}

	tests := []struct {
		name          string
		goal          domain.GoalConfig
		actualRate    float64
		wantRationale string
	}{
		{
			"lowering",
			reducing,
			-0.3,
			"observed rate -0.30 units/week against a goal of -0.50 units/week: lowering the daily target from 1780 to 1680 kcal",
		},
		{
			"raising",
			reducing,
			-0.8,
			"observed rate -0.80 units/week against a goal of -0.50 units/week: raising the daily target from 1780 to 1930 kcal",
		},
		{
			"maintenance on track",
			maintaining,
			0.1,
			"observed rate +0.10 units/week against a maintenance goal: on track, keeping the daily target at 1780 kcal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New().Advise(asOf, tt.goal, tt.actualRate, baseTargets())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if rec.PreviousCalories != 1780 {
				t.Errorf("PreviousCalories = %v, want 1780", rec.PreviousCalories)
			}
			if rec.Rationale != tt.wantRationale {
				t.Errorf("Rationale = %q, want %q", rec.Rationale, tt.wantRationale)
			}
		})
	}
}

func TestAdviseValidation(t *testing.T) {
	current := baseTargets()

	// A zero target rate outside maintaining must be rejected before
	// any division happens.
	bad := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: 0, ProteinG: 160}
	if _, err := New().Advise(asOf, bad, -0.5, current); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero-rate reducing goal: error = %v, want ErrValidation", err)
	}

	goal := domain.GoalConfig{Phase: domain.PhaseReducing, TargetRate: -0.5, ProteinG: 160}
	if _, err := New().Advise(asOf, goal, math.NaN(), current); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("NaN rate: error = %v, want ErrValidation", err)
	}
}
