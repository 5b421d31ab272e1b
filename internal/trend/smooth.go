// Package trend smooths noisy daily mass readings. Day-to-day scale
// weight swings with water and glycogen; the smoothed series is what
// every downstream estimate reads, never the raw readings.
package trend

import (
	"fmt"

	"metabolic-lab/internal/domain"
)

// DefaultAlpha is the exponential smoothing factor. Higher values
// track the raw series more closely.
const DefaultAlpha = 0.3

// DefaultSMAWindow is the trailing window for the simple moving
// average shown alongside the smoothed series.
const DefaultSMAWindow = 7

// Exponential applies exponential smoothing to the raw series:
// out[0] = raw[0], out[i] = alpha*raw[i] + (1-alpha)*out[i-1].
// Returns nil for empty input. Alpha is trusted; use
// ExponentialChecked for caller-supplied values.
func Exponential(raw []float64, alpha float64) []float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make([]float64, len(raw))
	out[0] = raw[0]
	for i := 1; i < len(raw); i++ {
		out[i] = alpha*raw[i] + (1-alpha)*out[i-1]
	}
	return out
}

// ExponentialChecked validates alpha before smoothing.
func ExponentialChecked(raw []float64, alpha float64) ([]float64, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha %.3f outside (0, 1]: %w", alpha, domain.ErrValidation)
	}
	return Exponential(raw, alpha), nil
}

// Moving applies a trailing simple moving average. Output length
// equals input length, but the first window-1 positions are nil: the
// average is undefined until a full window of points exists.
func Moving(raw []float64, window int) []*float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make([]*float64, len(raw))
	var sum float64
	for i, v := range raw {
		sum += v
		if i >= window {
			sum -= raw[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}

// MovingChecked validates the window before smoothing.
func MovingChecked(raw []float64, window int) ([]*float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("window %d must be at least 1: %w", window, domain.ErrValidation)
	}
	return Moving(raw, window), nil
}

// Smooth fills the Smoothed field of each point from its Raw field
// using exponential smoothing, preserving days and order.
func Smooth(points []domain.TrendPoint, alpha float64) domain.TrendSeries {
	if len(points) == 0 {
		return nil
	}
	raw := make([]float64, len(points))
	for i, p := range points {
		raw[i] = p.Raw
	}
	smoothed := Exponential(raw, alpha)
	out := make(domain.TrendSeries, len(points))
	for i, p := range points {
		out[i] = domain.TrendPoint{Day: p.Day, Raw: p.Raw, Smoothed: smoothed[i]}
	}
	return out
}
