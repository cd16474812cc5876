// Package mathutil provides the small set of arithmetic helpers shared by
// the benefit and cashflow calculations.
package mathutil

import (
	"math"

	"github.com/iwvelando/gibill-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Only applied when a figure is returned to a caller.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Fraction converts a whole percentage (e.g. 70) into a multiplier (0.7).
func Fraction(percentage float64) float64 {
	return percentage / constants.PercentageMultiplier
}

// NonNegative floors a value at zero.
func NonNegative(val float64) float64 {
	return math.Max(0, val)
}

// IsValidAmount reports whether val is a finite, non-negative monetary amount.
func IsValidAmount(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0) && val >= 0
}

// IsNegative reports whether val is negative once rounded to cents, so float
// residue such as -0.004 counts as zero while -0.01 is a real deficit.
func IsNegative(val float64) bool {
	return Round(val) < 0
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
