package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// StochasticTol is the tolerance used when checking that probabilities
// sum to one.
const StochasticTol = 1e-9

// IsStochastic reports whether p has only non-negative entries summing to
// 1 within tol.
func IsStochastic(p Vec, tol float64) bool {
	if len(p) == 0 {
		return false
	}
	for _, x := range p {
		if x < 0 || math.IsNaN(x) {
			return false
		}
	}
	return math.Abs(floats.Sum(p)-1) <= tol
}

// Normalize scales p in place so it sums to 1 and returns the original
// sum. A zero-sum vector is left untouched.
func Normalize(p Vec) float64 {
	sum := floats.Sum(p)
	if sum == 0 {
		return 0
	}
	floats.Scale(1/sum, p)
	return sum
}

// Floor raises every entry of p below floor up to floor. A non-positive
// floor is a no-op.
func Floor(p Vec, floor float64) {
	if floor <= 0 {
		return
	}
	for i, x := range p {
		if x < floor {
			p[i] = floor
		}
	}
}
