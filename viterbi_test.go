package hmm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// pathLogProb computes the joint log-probability of obs and a given state
// path under the model.
func pathLogProb(m *Model, obs, path []int) float64 {
	lp := mathutil.Log(m.Initial().AtVec(path[0]))
	p0, _ := m.Emission(path[0]).Prob(obs[0])
	lp += mathutil.Log(p0)
	trans := m.Transition()
	for t := 1; t < len(obs); t++ {
		lp += mathutil.Log(trans.At(path[t], path[t-1]))
		pt, _ := m.Emission(path[t]).Prob(obs[t])
		lp += mathutil.Log(pt)
	}
	return lp
}

func TestDecodeDemoSequence(t *testing.T) {
	m := demoModel(t)
	states, err := m.Decode([]int{0, 0, 1, 0, 1, 1})
	require.NoError(t, err)
	// Verified by exhaustive enumeration: once state 1 is entered at t=2,
	// the self-transition 0.7 beats switching back out for the lone 0.
	require.Equal(t, []int{0, 0, 1, 1, 1, 1}, states)
}

func TestDecodeSingleObservation(t *testing.T) {
	m := demoModel(t)
	states, err := m.Decode([]int{0})
	require.NoError(t, err)
	// 0.5*0.9 > 0.5*0.2, so state 0 wins at t=0.
	require.Equal(t, []int{0}, states)
}

func TestDecodeEmptySequence(t *testing.T) {
	m := demoModel(t)
	_, err := m.Decode([]int{})
	require.ErrorIs(t, err, ErrEmptySequence)
}

func TestDecodeSymbolOutOfRange(t *testing.T) {
	m := demoModel(t)
	_, err := m.Decode([]int{0, 2})
	require.ErrorIs(t, err, ErrSymbolOutOfRange)
}

func TestDecodeNoFeasiblePath(t *testing.T) {
	emit0 := NewDiscrete(2)
	emit1 := NewDiscrete(2)
	require.NoError(t, emit0.SetProbs([]float64{1, 0}))
	require.NoError(t, emit1.SetProbs([]float64{1, 0}))
	m, err := New(
		mat.NewVecDense(2, []float64{0.5, 0.5}),
		mat.NewDense(2, 2, []float64{0.8, 0.3, 0.2, 0.7}),
		[]*Discrete{emit0, emit1},
	)
	require.NoError(t, err)

	_, err = m.Decode([]int{0, 1})
	require.ErrorIs(t, err, ErrNoFeasiblePath)
}

func TestDecodeTieBreaksTowardSmallestState(t *testing.T) {
	// Every parameter uniform: all paths score identically, so the
	// decoder must return state 0 throughout.
	m, err := New(
		mat.NewVecDense(2, []float64{0.5, 0.5}),
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		uniformDiscretes(2, 2),
	)
	require.NoError(t, err)

	states, err := m.Decode([]int{0, 1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0, 0}, states)
}

func TestDecodeScoreBoundedByLogLikelihood(t *testing.T) {
	m := demoModel(t)
	sequences := [][]int{
		{0},
		{1, 1, 1},
		{0, 0, 1, 0, 1, 1},
		{1, 0, 1, 0, 1, 0, 0, 0},
	}
	for _, obs := range sequences {
		states, err := m.Decode(obs)
		require.NoError(t, err)
		logLik, err := m.LogLikelihood(obs)
		require.NoError(t, err)
		// The joint probability of a single path cannot exceed P(O).
		require.LessOrEqual(t, pathLogProb(m, obs, states), logLik+1e-9)
	}
}

func TestDecodeInvariantUnderStateRelabeling(t *testing.T) {
	m := demoModel(t)
	emit0 := NewDiscrete(2)
	emit1 := NewDiscrete(2)
	require.NoError(t, emit0.SetProbs([]float64{0.2, 0.8}))
	require.NoError(t, emit1.SetProbs([]float64{0.9, 0.1}))
	swapped, err := New(
		mat.NewVecDense(2, []float64{0.5, 0.5}),
		mat.NewDense(2, 2, []float64{0.7, 0.2, 0.3, 0.8}),
		[]*Discrete{emit0, emit1},
	)
	require.NoError(t, err)

	obs := []int{0, 0, 1, 0, 1, 1}
	want, err := m.Decode(obs)
	require.NoError(t, err)
	got, err := swapped.Decode(obs)
	require.NoError(t, err)
	for i := range want {
		require.Equal(t, want[i], 1-got[i])
	}
}

func TestDecodeDeterministic(t *testing.T) {
	m := demoModel(t)
	obs := []int{0, 1, 1, 0, 0, 1, 0, 1}
	first, err := m.Decode(obs)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := m.Decode(obs)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
