package analysis

import "college-betting-ev/internal/mathutil"

// DefaultSpreadStdDev is the standard deviation of the final margin around the
// model's predicted margin, in points.
const DefaultSpreadStdDev = 12.0

// SpreadCoverProbability returns the probability that a side covers betSpread
// when its actual margin is Normal(modelSpread, sd).
//
// modelSpread is the predicted margin from the bet side's perspective
// (positive means the side wins by that much). betSpread is the posted line
// for the side: -7 means it must win by more than 7, +7 means it must not
// lose by more than 7.
//
// A non-positive sd collapses the distribution onto modelSpread.
func SpreadCoverProbability(modelSpread, betSpread, sd float64) float64 {
	// Margin the side must beat: |line| for a favorite, -line for an underdog.
	// Both reduce to -line.
	threshold := -betSpread

	if sd <= 0 {
		switch {
		case modelSpread > threshold:
			return 1
		case modelSpread < threshold:
			return 0
		}
		return 0.5
	}

	z := (threshold - modelSpread) / sd
	return 1 - mathutil.NormalCDF(z)
}
