package mathutil

import "math"

// Log returns the natural logarithm of x, with Log(x) = -Inf for x <= 0.
// Negative infinity propagates additively through log-domain scores, so a
// path through a zero-probability transition stays at -Inf.
func Log(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}
