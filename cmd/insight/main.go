// Command insight composes the full progress picture: formula versus
// adaptive expenditure, the smoothed trend, the current recommendation
// and snapshot history, rendered as text, markdown or CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/energy"
	"metabolic-lab/internal/fixtures"
	"metabolic-lab/internal/history"
	"metabolic-lab/internal/insight"
	"metabolic-lab/internal/reporting"
	"metabolic-lab/internal/storage"
	chstore "metabolic-lab/internal/storage/clickhouse"
	"metabolic-lab/internal/storage/memory"
	"metabolic-lab/internal/storage/migrations"
	pgstore "metabolic-lab/internal/storage/postgres"
	"metabolic-lab/internal/storage/sqlite"
)

func main() {
	// Load .env file if exists (flags still override)
	_ = godotenv.Load()

	// Profile
	sex := flag.String("sex", "male", "Biological sex for the formula estimate: male or female")
	age := flag.Int("age", 30, "Age in whole years")
	heightCm := flag.Float64("height-cm", 175, "Height in centimeters")
	massKg := flag.Float64("mass-kg", 80, "Current body mass in kilograms")
	activity := flag.String("activity", "moderate", "Activity level: sedentary, light, moderate, active, very_active")

	// Goal
	phase := flag.String("phase", "reducing", "Goal phase: reducing, maintaining, increasing or recomposition")
	rate := flag.Float64("rate", -0.5, "Target mass change in units/week")
	protein := flag.Float64("protein", 160, "Fixed daily protein grams")
	carbs := flag.Float64("carbs", 0, "Current daily carb grams (0 derives from logged intake)")
	fat := flag.Float64("fat", 0, "Current daily fat grams (0 derives from logged intake)")
	window := flag.Int("window", 0, "Estimation window in days (0 means 14)")

	// Storage
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of a database")
	dbPath := flag.String("db", envOr("METABOLIC_DB", "metabolic.db"), "SQLite database file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	snapshotsDSN := flag.String("snapshots-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for snapshot history")

	// Output
	format := flag.String("format", "text", "Output format: text, markdown or csv")
	outFile := flag.String("out", "", "Write output to a file instead of stdout")
	capture := flag.Bool("capture", false, "Persist today's expenditure snapshot")
	flag.Parse()

	logger := log.New(os.Stderr, "[insight] ", log.LstdFlags)

	switch *format {
	case "text", "markdown", "csv":
	default:
		logger.Fatalf("--format %q: want text, markdown or csv", *format)
	}

	goalPhase, err := domain.ParsePhase(*phase)
	if err != nil {
		logger.Fatalf("%v", err)
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

	ctx := context.Background()

	weights, intakeStore, cleanup, err := openStores(ctx, *useFixtures, *postgresDSN, *dbPath)
	if err != nil {
		logger.Fatalf("open stores: %v", err)
	}
	defer cleanup()

	snapshots, snapCleanup, err := openSnapshots(ctx, *useFixtures, *snapshotsDSN)
	if err != nil {
		logger.Fatalf("open snapshot store: %v", err)
	}
	defer snapCleanup()

	composer := insight.NewComposer(weights, intakeStore)
	if snapshots != nil {
		composer.WithSnapshots(snapshots)
	}
	if *window > 0 {
		composer.WithEstimator(&energy.Estimator{WindowDays: *window})
	}
	if *useFixtures {
		// Pin the clock to the fixture range for deterministic output
		fixedTime := fixtures.End.Time().Add(12 * time.Hour)
		composer.WithClock(func() time.Time { return fixedTime })
	}

	goal := domain.GoalConfig{
		Phase:      goalPhase,
		TargetRate: *rate,
		ProteinG:   *protein,
	}
	profile := domain.Profile{
		Sex:      domain.Sex(*sex),
		AgeYears: *age,
		HeightCm: *heightCm,
		MassKg:   *massKg,
		Activity: domain.Activity(*activity),
	}

	current, err := currentTargets(ctx, composer, intakeStore, goal, *carbs, *fat)
	if err != nil {
		logger.Fatalf("derive current targets: %v", err)
	}

	ins, err := composer.Compose(ctx, goal, profile, current)
	if err != nil {
		logger.Fatalf("compose insight: %v", err)
	}

	if *capture {
		if snapshots == nil {
			logger.Fatal("--capture needs --snapshots-dsn or --use-fixtures")
		}
		if ins.Adaptive == nil {
			logger.Printf("nothing to capture: collecting data, %d of %d days logged", ins.DaysLogged, ins.DaysRequired)
		} else {
			snap, err := history.NewRecorder(snapshots).Capture(ctx, ins.Adaptive, ins.AsOf)
			if err != nil {
				logger.Fatalf("capture snapshot: %v", err)
			}
			logger.Printf("captured %s: %.0f kcal/day as of %s", snap.SnapshotID, snap.Estimated, snap.AsOf)
		}
	}

	output, err := render(ctx, ins, goal, snapshots, *format)
	if err != nil {
		logger.Fatalf("render %s: %v", *format, err)
	}

	if *outFile == "" {
		fmt.Print(output)
		return
	}
	if err := os.WriteFile(*outFile, []byte(output), 0o644); err != nil {
		logger.Fatalf("write %s: %v", *outFile, err)
	}
	logger.Printf("wrote %s", *outFile)
}

// openStores resolves the daily-log backend. Fixtures win, then
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

// openSnapshots connects the snapshot history store, creating the
// database and schema on first contact. Without a DSN the fixture mode
// still gets an in-memory store so --capture works in demos; otherwise
// history is simply absent.
func openSnapshots(ctx context.Context, useFixtures bool, dsn string) (storage.SnapshotStore, func(), error) {
	if dsn != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return chstore.NewSnapshotStore(conn), func() { conn.Close() }, nil
	}
	if useFixtures {
		return memory.NewSnapshotStore(), func() {}, nil
	}
	return nil, func() {}, nil
}

// currentTargets builds the prescription a recommendation applies to.
// Explicit carb and fat flags win; otherwise the trailing window's
// average logged macros stand in for the current plan.
func currentTargets(ctx context.Context, composer *insight.Composer, intakeStore storage.IntakeStore, goal domain.GoalConfig, carbs, fat float64) (domain.MacroTargets, error) {
	if carbs != 0 || fat != 0 {
		return domain.NewMacroTargets(goal.ProteinG, carbs, fat), nil
	}

	from, to := composer.Window()
	recs, err := intakeStore.Range(ctx, from, to)
	if err != nil {
		return domain.MacroTargets{}, err
	}
	if len(recs) == 0 {
		return domain.NewMacroTargets(goal.ProteinG, 0, 0), nil
	}

	var c, f float64
	for _, r := range recs {
		c += r.CarbsG
		f += r.FatG
	}
	n := float64(len(recs))
	return domain.NewMacroTargets(goal.ProteinG, c/n, f/n), nil
}

// render produces the requested output format from a composed insight.
func render(ctx context.Context, ins *insight.Insight, goal domain.GoalConfig, snapshots storage.SnapshotStore, format string) (string, error) {
	switch format {
	case "csv":
		if ins.Trend == nil {
			return reporting.RenderCSV(nil), nil
		}
		return reporting.RenderCSV(ins.Trend.Series), nil

	case "markdown":
		var drift *history.DriftSummary
		if snapshots != nil {
			from := ins.AsOf.AddDays(-(reporting.DriftLookbackDays - 1))
			d, err := history.NewRecorder(snapshots).Drift(ctx, from, ins.AsOf)
			if err != nil && !errors.Is(err, history.ErrNoSnapshots) {
				return "", err
			}
			drift = d
		}
		return reporting.RenderMarkdown(reporting.FromInsight(ins, goal, drift)), nil

	default:
		return renderText(ins), nil
	}
}

// renderText prints the insight as aligned terminal lines.
func renderText(ins *insight.Insight) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Metabolic insight as of %s\n\n", ins.AsOf)

	if ins.Status == insight.StatusCollecting {
		fmt.Fprintf(&b, "Status:           collecting data, %d of %d days logged\n", ins.DaysLogged, ins.DaysRequired)
		fmt.Fprintf(&b, "Formula estimate: %.0f kcal/day\n", ins.FormulaEstimate)
		b.WriteString("Log daily mass and intake until the window fills.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Status:            ready, %d days logged\n", ins.DaysLogged)
	fmt.Fprintf(&b, "Formula estimate:  %.0f kcal/day\n", ins.FormulaEstimate)
	fmt.Fprintf(&b, "Adaptive estimate: %.0f kcal/day (%+.1f%% vs formula)\n", ins.Adaptive.Estimated, ins.DivergencePct)
	if ins.Trend != nil && ins.Trend.RatePerWeek != nil {
		fmt.Fprintf(&b, "Observed rate:     %+.2f units/week\n", *ins.Trend.RatePerWeek)
	} else {
		b.WriteString("Observed rate:     n/a until the rate span fills\n")
	}
	fmt.Fprintf(&b, "Avg intake:        %.0f kcal/day over %d logged days\n", ins.Adaptive.AvgIntake, ins.Adaptive.IntakeDays)

	if rec := ins.Recommendation; rec != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Recommendation: %s (%s)\n", rec.Status, rec.Tag)
		fmt.Fprintf(&b, "Previous:       %.0f kcal/day\n", rec.PreviousCalories)
		fmt.Fprintf(&b, "Adjustment:     %+.0f kcal/day\n", rec.CalorieDelta)
		fmt.Fprintf(&b, "Targets:        %.0f kcal = %.0fP / %.0fC / %.0fF\n",
			rec.Targets.Calories, rec.Targets.ProteinG, rec.Targets.CarbsG, rec.Targets.FatG)
		if rec.Targets.Capped {
			b.WriteString("Warning: carbs floored at zero, the full reduction could not be applied.\n")
		}
		fmt.Fprintf(&b, "%s\n", rec.Rationale)
	} else {
		b.WriteString("\nNo recommendation until one more day is logged.\n")
	}

	if snap := ins.LatestSnapshot; snap != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Last snapshot: %s, %.0f kcal/day as of %s\n", snap.SnapshotID, snap.Estimated, snap.AsOf)
	}

	return b.String()
}

// envOr returns the environment value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
