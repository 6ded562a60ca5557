package hmm

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// Discrete is a categorical distribution over a finite symbol alphabet
// [0, K). It serves as the per-state emission distribution of a Model.
type Discrete struct {
	probs []float64
}

// NewDiscrete returns a uniform distribution over k symbols.
// It panics if k <= 0.
func NewDiscrete(k int) *Discrete {
	if k <= 0 {
		panic("hmm: NewDiscrete called with non-positive alphabet size")
	}
	return &Discrete{probs: mathutil.NewVecFill(k, 1/float64(k))}
}

// K returns the alphabet size.
func (d *Discrete) K() int {
	return len(d.probs)
}

// Prob returns the probability of symbol k, or ErrSymbolOutOfRange when
// k is outside [0, K).
func (d *Discrete) Prob(k int) (float64, error) {
	if k < 0 || k >= len(d.probs) {
		return 0, fmt.Errorf("%w: symbol %d, alphabet size %d", ErrSymbolOutOfRange, k, len(d.probs))
	}
	return d.probs[k], nil
}

// prob is the unchecked fast path used by the algorithms after the
// observation sequence has been validated.
func (d *Discrete) prob(k int) float64 {
	return d.probs[k]
}

// SetProbs replaces the distribution with p. It returns ErrNotStochastic
// when len(p) != K, any entry is negative, or the entries do not sum to 1
// within 1e-9. p is copied.
func (d *Discrete) SetProbs(p []float64) error {
	if len(p) != len(d.probs) {
		return fmt.Errorf("%w: got %d probabilities, want %d", ErrNotStochastic, len(p), len(d.probs))
	}
	if !mathutil.IsStochastic(p, mathutil.StochasticTol) {
		return fmt.Errorf("%w: entries must be non-negative and sum to 1", ErrNotStochastic)
	}
	copy(d.probs, p)
	return nil
}

// Fit re-estimates the distribution from non-negative weighted counts,
// setting entry k to weights[k] / sum(weights). A zero total resets the
// distribution to uniform so EM never produces NaN rows for states that
// emitted nothing.
func (d *Discrete) Fit(weights []float64) {
	if len(weights) != len(d.probs) {
		panic("hmm: Fit weight length does not match alphabet size")
	}
	total := floats.Sum(weights)
	if total == 0 {
		mathutil.FillVec(d.probs, 1/float64(len(d.probs)))
		return
	}
	for k, w := range weights {
		d.probs[k] = w / total
	}
}

// Sample draws one symbol from the distribution using src.
func (d *Discrete) Sample(src rand.Source) int {
	cat := distuv.NewCategorical(d.probs, src)
	return int(cat.Rand())
}

// Probs returns a copy of the probability vector.
func (d *Discrete) Probs() []float64 {
	p := make([]float64, len(d.probs))
	copy(p, d.probs)
	return p
}

// clone returns a deep copy of the distribution.
func (d *Discrete) clone() *Discrete {
	return &Discrete{probs: d.Probs()}
}
