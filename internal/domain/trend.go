package domain

// TrendPoint represents one day of the smoothed mass series.
type TrendPoint struct {
	Day      Day      // calendar date
	Raw      float64  // raw scale reading
	Smoothed float64  // exponentially smoothed mass
	SMA      *float64 // simple moving average of raw mass; nil until the window fills
}

// TrendSeries is an ascending-by-day smoothed mass series.
type TrendSeries []TrendPoint

// Len returns the number of points in the series.
func (s TrendSeries) Len() int {
	return len(s)
}

// First returns the earliest point. Call only on non-empty series.
func (s TrendSeries) First() TrendPoint {
	return s[0]
}

// Last returns the latest point. Call only on non-empty series.
func (s TrendSeries) Last() TrendPoint {
	return s[len(s)-1]
}

// MassChange returns smoothed last minus smoothed first, 0 for
// series shorter than two points.
func (s TrendSeries) MassChange() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Smoothed - s[0].Smoothed
}
