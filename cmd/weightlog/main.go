// Command weightlog maintains the daily log: record mass observations
// and food intake, list recent entries, derive the smoothed trend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/ledger"
	"metabolic-lab/internal/storage"
	"metabolic-lab/internal/storage/sqlite"
)

// Listing bounds wide enough to cover any stored day.
const (
	rangeFrom = domain.Day("0001-01-01")
	rangeTo   = domain.Day("9999-12-31")
)

func main() {
	// Load .env file if exists (flags still override)
	_ = godotenv.Load()

	dbPath := flag.String("db", envOr("METABOLIC_DB", "metabolic.db"), "SQLite database file")
	record := flag.String("record", "", "Record a mass observation as DAY=MASS (empty DAY means today, e.g. =81.6)")
	note := flag.String("note", "", "Free-form note stored with --record")
	intake := flag.String("intake", "", "Record intake as DAY=CALORIES[:PROTEIN/CARBS/FAT]")
	remove := flag.String("remove", "", "Remove the observation for DAY")
	list := flag.Int("list", 0, "List the most recent N entries")
	trendDays := flag.Int("trend", 0, "Derive the smoothed trend over the last N days")
	goalMass := flag.Float64("goal-mass", 0, "Goal mass to compare the trend against (with --trend, 0 disables)")
	flag.Parse()

	if *record == "" && *intake == "" && *remove == "" && *list == 0 && *trendDays == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to do")
		fmt.Fprintln(os.Stderr, "Pass --record, --intake, --remove, --list or --trend")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	weights := sqlite.NewWeightStore(db)
	intakeStore := sqlite.NewIntakeStore(db)
	svc := ledger.NewService(weights)

	if *record != "" {
		if err := recordMass(ctx, svc, *record, *note); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *intake != "" {
		if err := recordIntake(ctx, intakeStore, *intake); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *remove != "" {
		if err := removeDay(ctx, svc, *remove); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *list > 0 {
		if err := listEntries(ctx, svc, intakeStore, *list); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *trendDays > 0 {
		if err := printTrend(ctx, svc, *trendDays, *goalMass); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// recordMass parses DAY=MASS and stores the observation.
func recordMass(ctx context.Context, svc *ledger.Service, arg, note string) error {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("--record wants DAY=MASS, got %q", arg)
	}

	mass, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("mass %q is not a number", parts[1])
	}

	obs := domain.WeightObservation{Mass: mass, Note: note}
	if parts[0] == "" {
		obs.Day = domain.DayOf(time.Now())
	} else {
		obs.Day, err = domain.ParseDay(parts[0])
		if err != nil {
			return err
		}
	}

	if err := svc.Record(ctx, obs); err != nil {
		return err
	}
	fmt.Printf("Recorded %s: %.2f units\n", obs.Day, obs.Mass)
	return nil
}

// recordIntake parses DAY=CALORIES[:PROTEIN/CARBS/FAT] and stores the record.
func recordIntake(ctx context.Context, store storage.IntakeStore, arg string) error {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("--intake wants DAY=CALORIES[:PROTEIN/CARBS/FAT], got %q", arg)
	}

	rec := &domain.IntakeRecord{}
	if parts[0] == "" {
		rec.Day = domain.DayOf(time.Now())
	} else {
		day, err := domain.ParseDay(parts[0])
		if err != nil {
			return err
		}
		rec.Day = day
	}

	spec := strings.SplitN(parts[1], ":", 2)
	calories, err := strconv.ParseFloat(spec[0], 64)
	if err != nil {
		return fmt.Errorf("calories %q is not a number", spec[0])
	}
	rec.Calories = calories

	if len(spec) == 2 {
		macros := strings.Split(spec[1], "/")
		if len(macros) != 3 {
			return fmt.Errorf("macros %q want PROTEIN/CARBS/FAT", spec[1])
		}
		if rec.ProteinG, err = strconv.ParseFloat(macros[0], 64); err != nil {
			return fmt.Errorf("protein %q is not a number", macros[0])
		}
		if rec.CarbsG, err = strconv.ParseFloat(macros[1], 64); err != nil {
			return fmt.Errorf("carbs %q is not a number", macros[1])
		}
		if rec.FatG, err = strconv.ParseFloat(macros[2], 64); err != nil {
			return fmt.Errorf("fat %q is not a number", macros[2])
		}
	}

	if err := domain.ValidateIntake(*rec); err != nil {
		return err
	}
	if err := store.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("record intake for %s: %w", rec.Day, err)
	}
	fmt.Printf("Recorded %s: %.0f kcal\n", rec.Day, rec.Calories)
	return nil
}

// removeDay deletes the observation for the given day. An absent day
// is reported, not treated as a failure.
func removeDay(ctx context.Context, svc *ledger.Service, arg string) error {
	day, err := domain.ParseDay(arg)
	if err != nil {
		return err
	}
	removed, err := svc.Remove(ctx, day)
	if err != nil {
		return err
	}
	if removed {
		fmt.Printf("Removed %s\n", day)
	} else {
		fmt.Printf("Nothing logged for %s\n", day)
	}
	return nil
}

// listEntries prints the most recent n observations with any matching
// intake records.
func listEntries(ctx context.Context, svc *ledger.Service, intakeStore storage.IntakeStore, n int) error {
	obs, err := svc.Range(ctx, rangeFrom, rangeTo)
	if err != nil {
		return err
	}
	total := len(obs)
	if total > n {
		obs = obs[total-n:]
	}

	for _, o := range obs {
		line := fmt.Sprintf("%s  %7.2f", o.Day, o.Mass)
		rec, err := intakeStore.Get(ctx, o.Day)
		switch {
		case err == nil:
			line += fmt.Sprintf("  %5.0f kcal", rec.Calories)
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
		if o.Note != "" {
			line += "  # " + o.Note
		}
		fmt.Println(line)
	}
	fmt.Printf("%d of %d entries\n", len(obs), total)
	return nil
}

// printTrend derives and prints the smoothed series over the trailing
// n days.
func printTrend(ctx context.Context, svc *ledger.Service, n int, goalMass float64) error {
	to := domain.DayOf(time.Now())
	from := to.AddDays(-(n - 1))

	opts := ledger.TrendOptions{}
	if goalMass > 0 {
		opts.GoalMass = &goalMass
	}
	res, err := svc.DeriveTrend(ctx, from, to, opts)
	if err != nil {
		return err
	}
	if res.Series.Len() == 0 {
		fmt.Printf("No observations between %s and %s\n", from, to)
		return nil
	}

	fmt.Println("Day         Scale    Trend      SMA")
	for _, p := range res.Series {
		sma := "-"
		if p.SMA != nil {
			sma = fmt.Sprintf("%.2f", *p.SMA)
		}
		fmt.Printf("%s  %7.2f  %7.2f  %7s\n", p.Day, p.Raw, p.Smoothed, sma)
	}
	if res.RatePerWeek != nil {
		fmt.Printf("Rate: %+.2f units/week (%s)\n", *res.RatePerWeek, res.Direction)
	} else {
		fmt.Printf("Rate: n/a, %d of %d days needed\n", res.Series.Len(), ledger.RateSpanDays+1)
	}
	if res.DeltaFromGoal != nil {
		fmt.Printf("Goal gap: %+.2f units\n", *res.DeltaFromGoal)
	}
	return nil
}

// envOr returns the environment value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
