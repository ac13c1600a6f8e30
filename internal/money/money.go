// Package money provides fixed-point arithmetic on integer cents. No component
// of the engine does floating-point currency math.
package money

// Mul multiplies a per-unit amount by a quantity.
func Mul(cents int64, qty int32) int64 {
	return cents * int64(qty)
}

// PercentBps applies a percentage expressed in basis points (1500 = 15%),
// rounding half up. Amounts are assumed non-negative.
func PercentBps(cents int64, bps int64) int64 {
	return (cents*bps + 5000) / 10000
}

// Prorate rescales an amount booked for bookedDays onto actualDays in a single
// multiply-divide so that Prorate(total, d, d) == total exactly. Rounds half up.
func Prorate(cents int64, bookedDays, actualDays int32) int64 {
	if bookedDays <= 0 {
		return cents
	}
	return (cents*int64(actualDays) + int64(bookedDays)/2) / int64(bookedDays)
}

// Clamp bounds cents into [min, max].
func Clamp(cents, min, max int64) int64 {
	if cents < min {
		return min
	}
	if cents > max {
		return max
	}
	return cents
}

// NonNegative floors at zero.
func NonNegative(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}

// Abs returns the absolute value.
func Abs(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}
