// Package hmm implements a discrete-observation hidden Markov model with
// scaled forward-backward likelihood, log-domain Viterbi decoding and
// Baum-Welch (EM) re-estimation.
//
// The transition matrix is column-stochastic throughout the package:
// A.At(i, j) is the probability of moving to state i given the current
// state j, and every column of A sums to 1.
package hmm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// Model is a discrete-observation HMM over NumStates hidden states and a
// NumSymbols observation alphabet. A Model is immutable under inference;
// only Train replaces its parameters, atomically per EM iteration, so a
// shared Model may be read concurrently as long as training is externally
// serialized.
type Model struct {
	states  int
	symbols int

	// initial[s] = P(state s at t=0).
	initial *mat.VecDense
	// trans is column-stochastic: trans.At(i, j) = P(next=i | current=j).
	trans *mat.Dense
	// emissions[s] gives P(symbol | state s).
	emissions []*Discrete
}

// New constructs a Model from an initial distribution, a
// column-stochastic transition matrix and one emission distribution per
// state. All inputs are copied. It returns ErrInvalidParameters when the
// initial vector or any column of transition is not stochastic, when the
// shapes disagree, or when the emission alphabets differ in size.
func New(initial mat.Vector, transition mat.Matrix, emissions []*Discrete) (*Model, error) {
	s := initial.Len()
	if s == 0 {
		return nil, fmt.Errorf("%w: empty initial distribution", ErrInvalidParameters)
	}
	r, c := transition.Dims()
	if r != s || c != s {
		return nil, fmt.Errorf("%w: transition is %dx%d, want %dx%d", ErrInvalidParameters, r, c, s, s)
	}
	if len(emissions) != s {
		return nil, fmt.Errorf("%w: got %d emission distributions, want %d", ErrInvalidParameters, len(emissions), s)
	}

	pi := make([]float64, s)
	for i := range pi {
		pi[i] = initial.AtVec(i)
	}
	if !mathutil.IsStochastic(pi, mathutil.StochasticTol) {
		return nil, fmt.Errorf("%w: initial distribution is not stochastic", ErrInvalidParameters)
	}

	col := make([]float64, s)
	for j := 0; j < s; j++ {
		mat.Col(col, j, transition)
		if !mathutil.IsStochastic(col, mathutil.StochasticTol) {
			return nil, fmt.Errorf("%w: transition column %d is not stochastic", ErrInvalidParameters, j)
		}
	}

	for i, e := range emissions {
		if e == nil {
			return nil, fmt.Errorf("%w: emission distribution %d is nil", ErrInvalidParameters, i)
		}
	}
	k := emissions[0].K()
	for i, e := range emissions {
		if e.K() != k {
			return nil, fmt.Errorf("%w: emission %d has alphabet size %d, want %d", ErrInvalidParameters, i, e.K(), k)
		}
	}

	m := &Model{
		states:    s,
		symbols:   k,
		initial:   mat.NewVecDense(s, pi),
		trans:     mat.DenseCopyOf(transition),
		emissions: make([]*Discrete, s),
	}
	for i, e := range emissions {
		m.emissions[i] = e.clone()
	}
	return m, nil
}

// NumStates returns the number of hidden states S.
func (m *Model) NumStates() int {
	return m.states
}

// NumSymbols returns the observation alphabet size K.
func (m *Model) NumSymbols() int {
	return m.symbols
}

// Initial returns a copy of the initial state distribution.
func (m *Model) Initial() *mat.VecDense {
	return mat.VecDenseCopyOf(m.initial)
}

// Transition returns a copy of the column-stochastic transition matrix:
// entry (i, j) is P(next=i | current=j).
func (m *Model) Transition() *mat.Dense {
	return mat.DenseCopyOf(m.trans)
}

// Emission returns a copy of the emission distribution of state s.
// It panics if s is outside [0, NumStates).
func (m *Model) Emission(s int) *Discrete {
	return m.emissions[s].clone()
}

// checkSequence validates one observation sequence against the alphabet.
func (m *Model) checkSequence(obs []int) error {
	if len(obs) == 0 {
		return ErrEmptySequence
	}
	for t, o := range obs {
		if o < 0 || o >= m.symbols {
			return fmt.Errorf("%w: observation %d at position %d, alphabet size %d", ErrSymbolOutOfRange, o, t, m.symbols)
		}
	}
	return nil
}
