// Package ledger keeps the daily mass log: one observation per
// calendar day, latest write wins.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"metabolic-lab/internal/domain"
	"metabolic-lab/internal/storage"
	"metabolic-lab/internal/trend"
)

// RateSpanDays is the trailing span between the two smoothed points
// used for the weekly rate. A rate needs RateSpanDays+1 entries.
const RateSpanDays = 14

// StableRatePerWeek is the absolute rate below which the trend
// direction reads as stable.
const StableRatePerWeek = 0.05

// Trend direction labels.
const (
	DirectionLosing  = "losing"
	DirectionGaining = "gaining"
	DirectionStable  = "stable"
)

// TrendResult is a smoothed series plus the weekly rate derived from it.
type TrendResult struct {
	Series domain.TrendSeries

	// RatePerWeek is nil until the range holds at least RateSpanDays+1
	// entries. Units per week, negative while losing.
	RatePerWeek *float64

	// Direction is DirectionStable until a rate is available.
	Direction string

	// DeltaFromGoal is smoothed mass minus goal mass, set only when a
	// goal mass was supplied and the range is non-empty.
	DeltaFromGoal *float64
}

// TrendOptions configures DeriveTrend. The zero value selects the
// default alpha and SMA window with no goal comparison.
type TrendOptions struct {
	Alpha     float64  // smoothing factor; 0 means trend.DefaultAlpha
	SMAWindow int      // moving-average window; 0 means trend.DefaultSMAWindow
	GoalMass  *float64 // optional goal mass for DeltaFromGoal
}

// Service wraps a WeightStore with validation and trend derivation.
type Service struct {
	store storage.WeightStore
	now   func() time.Time // Injectable clock for deterministic output
}

// NewService creates a ledger service over the given store.
func NewService(store storage.WeightStore) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record validates and stores an observation. An empty Day defaults to
// the current day. Logging the same day twice overwrites the earlier
// entry rather than erroring or duplicating.
func (s *Service) Record(ctx context.Context, obs domain.WeightObservation) error {
	if obs.Day == "" {
		obs.Day = domain.DayOf(s.now())
	}
	if err := domain.ValidateObservation(obs); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, &obs); err != nil {
		return fmt.Errorf("record observation for %s: %w", obs.Day, err)
	}
	return nil
}

// Get returns the observation for a day, or storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, day domain.Day) (*domain.WeightObservation, error) {
	obs, err := s.store.Get(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get observation for %s: %w", day, err)
	}
	return obs, nil
}

// Range returns observations within [from, to], ascending by day.
func (s *Service) Range(ctx context.Context, from, to domain.Day) ([]*domain.WeightObservation, error) {
	obs, err := s.store.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load observations %s..%s: %w", from, to, err)
	}
	return obs, nil
}

// Latest returns the most recent observation, or storage.ErrNotFound
// for an empty ledger.
func (s *Service) Latest(ctx context.Context) (*domain.WeightObservation, error) {
	obs, err := s.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest observation: %w", err)
	}
	return obs, nil
}

// Remove deletes the observation for a day and reports whether an
// entry existed. Removing an absent day is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, day domain.Day) (bool, error) {
	if err := s.store.Delete(ctx, day); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("remove observation for %s: %w", day, err)
	}
	return true, nil
}

// Count returns the total number of observations stored.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

// DeriveTrend loads [from, to], smooths it, and derives the weekly
// rate from the smoothed series. An empty range yields an empty
// series and a nil rate, not an error. Gaps between logged days are
// smoothed as-is, no interpolation. The SMA column is computed over
// raw masses and stays nil until its window fills.
func (s *Service) DeriveTrend(ctx context.Context, from, to domain.Day, opts TrendOptions) (*TrendResult, error) {
	if _, err := domain.ParseDay(string(from)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseDay(string(to)); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("range start %s after end %s: %w", from, to, domain.ErrValidation)
	}
	alpha := opts.Alpha
	if alpha == 0 {
		alpha = trend.DefaultAlpha
	} else if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha %.3f outside (0, 1]: %w", alpha, domain.ErrValidation)
	}
	smaWindow := opts.SMAWindow
	if smaWindow == 0 {
		smaWindow = trend.DefaultSMAWindow
	} else if smaWindow < 0 {
		return nil, fmt.Errorf("sma window %d must not be negative: %w", opts.SMAWindow, domain.ErrValidation)
	}
	if opts.GoalMass != nil {
		g := *opts.GoalMass
		if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
			return nil, fmt.Errorf("goal mass %.2f must be a positive finite number: %w", g, domain.ErrValidation)
		}
	}

	obs, err := s.store.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load observations %s..%s: %w", from, to, err)
	}

	points := make([]domain.TrendPoint, len(obs))
	raw := make([]float64, len(obs))
	for i, o := range obs {
		points[i] = domain.TrendPoint{Day: o.Day, Raw: o.Mass}
		raw[i] = o.Mass
	}
	series := trend.Smooth(points, alpha)
	for i, avg := range trend.Moving(raw, smaWindow) {
		series[i].SMA = avg
	}

	result := &TrendResult{
		Series:    series,
		Direction: DirectionStable,
	}
	if len(series) > RateSpanDays {
		last := len(series) - 1
		rate := (series[last].Smoothed - series[last-RateSpanDays].Smoothed) / 2
		result.RatePerWeek = &rate
		result.Direction = directionOf(rate)
	}
	if opts.GoalMass != nil && len(series) > 0 {
		delta := series.Last().Smoothed - *opts.GoalMass
		result.DeltaFromGoal = &delta
	}
	return result, nil
}

// directionOf classifies a weekly rate.
func directionOf(rate float64) string {
	switch {
	case rate <= -StableRatePerWeek:
		return DirectionLosing
	case rate >= StableRatePerWeek:
		return DirectionGaining
	default:
		return DirectionStable
	}
}
