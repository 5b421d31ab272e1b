// Command advise back-calculates expenditure from the trailing window
// and prints the calorie adjustment for the active goal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"metabolic-lab/internal/advisor"
	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/fixtures"
	"metabolic-lab/internal/ledger"
	"metabolic-lab/internal/storage"
	"metabolic-lab/internal/storage/memory"
	"metabolic-lab/internal/storage/migrations"
	pgstore "metabolic-lab/internal/storage/postgres"
	"metabolic-lab/internal/storage/sqlite"
)

// Plausibility bounds for the printed advisory. The estimate itself
// is reported as computed.
const (
	plausibleMin = 500.0
	plausibleMax = 10000.0
)

func main() {
	// Load .env file if exists (flags still override)
	_ = godotenv.Load()

	phase := flag.String("phase", "reducing", "Goal phase: reducing, maintaining, increasing or recomposition")
	rate := flag.Float64("rate", -0.5, "Target mass change in units/week, sign carries direction")
	protein := flag.Float64("protein", 160, "Fixed daily protein grams")
	carbs := flag.Float64("carbs", 0, "Current daily carb grams (0 derives from logged intake)")
	fat := flag.Float64("fat", 0, "Current daily fat grams (0 derives from logged intake)")
	energyPerUnit := flag.Float64("energy-per-unit", 0, "kcal per unit of mass (0 means 3500)")
	window := flag.Int("window", 0, "Estimation window in days (0 means 14)")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of a database")
	dbPath := flag.String("db", envOr("METABOLIC_DB", "metabolic.db"), "SQLite database file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	flag.Parse()

	goalPhase, err := domain.ParsePhase(*phase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The rate default belongs to the reducing phase; maintaining
	// means zero unless the flag was set explicitly.
	rateSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "rate" {
			rateSet = true
		}
	})
	if goalPhase == domain.PhaseMaintaining && !rateSet {
		*rate = 0
	}

	goal := domain.GoalConfig{
		Phase:         goalPhase,
		TargetRate:    *rate,
		ProteinG:      *protein,
		EnergyPerUnit: *energyPerUnit,
	}
	if err := domain.ValidateGoal(goal); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	weights, intakeStore, cleanup, err := openStores(ctx, *useFixtures, *postgresDSN, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	end := domain.DayOf(time.Now())
	if *useFixtures {
		end = fixtures.End
	}

	estimator := &energy.Estimator{WindowDays: *window, EnergyPerUnit: *energyPerUnit}
	d := estimator.Window()
	from := end.AddDays(-(d - 1))

	obs, err := weights.Range(ctx, from, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading observations: %v\n", err)
		os.Exit(1)
	}
	recs, err := intakeStore.Range(ctx, from, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading intake: %v\n", err)
		os.Exit(1)
	}

	observations := make([]domain.WeightObservation, len(obs))
	for i, o := range obs {
		observations[i] = *o
	}
	intakes := make([]domain.IntakeRecord, len(recs))
	for i, r := range recs {
		intakes[i] = *r
	}

	estimate, err := estimator.Estimate(observations, intakes)
	if errors.Is(err, energy.ErrInsufficientData) {
		fmt.Printf("Collecting data: %d of %d observation days between %s and %s.\n", len(obs), d, from, end)
		fmt.Println("Log daily mass and intake until the window fills.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Window:      %s .. %s (%d days)\n", estimate.From, estimate.To, estimate.WindowDays)
	fmt.Printf("Avg intake:  %.0f kcal/day over %d logged days\n", estimate.AvgIntake, estimate.IntakeDays)
	fmt.Printf("Mass change: %+.2f units\n", estimate.MassChange)
	fmt.Printf("Expenditure: %.0f kcal/day\n", estimate.Estimated)
	if estimate.Estimated < plausibleMin || estimate.Estimated > plausibleMax {
		fmt.Println("Warning: the estimate is outside the plausible range, check the logs for missing days.")
	}
	fmt.Println()

	// The observed rate comes from the ledger trend, which spans one
	// day more than the estimation window.
	trends := ledger.NewService(weights)
	tr, err := trends.DeriveTrend(ctx, end.AddDays(-ledger.RateSpanDays), end, ledger.TrendOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deriving trend: %v\n", err)
		os.Exit(1)
	}
	if tr.RatePerWeek == nil {
		fmt.Printf("The weekly rate needs %d logged days ending %s. Keep logging for a recommendation.\n",
			ledger.RateSpanDays+1, end)
		return
	}

	current := currentTargets(goal, *carbs, *fat, intakes)

	rec, err := advisor.New().Advise(end, goal, *tr.RatePerWeek, current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trend rate:  %+.2f units/week\n", *tr.RatePerWeek)
	fmt.Printf("Status:      %s (%s)\n", rec.Status, rec.Tag)
	if goal.Phase != domain.PhaseMaintaining {
		fmt.Printf("Deviation:   %+.1f%% of target rate\n", rec.PercentDeviation)
	}
	fmt.Printf("Previous:    %.0f kcal/day\n", rec.PreviousCalories)
	fmt.Printf("Adjustment:  %+.0f kcal/day\n", rec.CalorieDelta)
	fmt.Printf("Targets:     %.0f kcal = %.0fP / %.0fC / %.0fF\n",
		rec.Targets.Calories, rec.Targets.ProteinG, rec.Targets.CarbsG, rec.Targets.FatG)
	if rec.Targets.Capped {
		fmt.Println("Warning: carbs floored at zero, the full reduction could not be applied.")
	}
	fmt.Println()
	fmt.Println(rec.Rationale)
}

// openStores resolves the storage backend. Fixtures win, then
// Postgres, then the SQLite file.
func openStores(ctx context.Context, useFixtures bool, postgresDSN, dbPath string) (storage.WeightStore, storage.IntakeStore, func(), error) {
	if useFixtures {
		weights := memory.NewWeightStore()
		intake := memory.NewIntakeStore()
		if err := fixtures.Load(ctx, weights, intake); err != nil {
			return nil, nil, nil, fmt.Errorf("load fixtures: %w", err)
		}
		return weights, intake, func() {}, nil
	}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return pgstore.NewWeightStore(pool), pgstore.NewIntakeStore(pool), pool.Close, nil
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	return sqlite.NewWeightStore(db), sqlite.NewIntakeStore(db), func() { db.Close() }, nil
}

// currentTargets builds the prescription the delta applies to. Explicit
// carb and fat flags win; otherwise the window's average logged macros
// stand in for the current plan.
func currentTargets(goal domain.GoalConfig, carbs, fat float64, intakes []domain.IntakeRecord) domain.MacroTargets {
	if carbs == 0 && fat == 0 && len(intakes) > 0 {
		var c, f float64
		for _, r := range intakes {
			c += r.CarbsG
			f += r.FatG
		}
		n := float64(len(intakes))
		return domain.NewMacroTargets(goal.ProteinG, c/n, f/n)
	}
	return domain.NewMacroTargets(goal.ProteinG, carbs, fat)
}

// envOr returns the environment value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
