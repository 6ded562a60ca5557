package hmm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewDiscreteUniform(t *testing.T) {
	d := NewDiscrete(4)
	require.Equal(t, 4, d.K())
	for k := 0; k < 4; k++ {
		p, err := d.Prob(k)
		require.NoError(t, err)
		require.InDelta(t, 0.25, p, 1e-15)
	}
}

func TestNewDiscretePanicsOnBadSize(t *testing.T) {
	require.Panics(t, func() { NewDiscrete(0) })
	require.Panics(t, func() { NewDiscrete(-1) })
}

func TestDiscreteProbOutOfRange(t *testing.T) {
	d := NewDiscrete(2)
	_, err := d.Prob(2)
	require.ErrorIs(t, err, ErrSymbolOutOfRange)
	_, err = d.Prob(-1)
	require.ErrorIs(t, err, ErrSymbolOutOfRange)
}

func TestDiscreteSetProbs(t *testing.T) {
	d := NewDiscrete(2)
	require.NoError(t, d.SetProbs([]float64{0.9, 0.1}))
	p, err := d.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0.9, p, 1e-15)

	require.ErrorIs(t, d.SetProbs([]float64{0.5, 0.25, 0.25}), ErrNotStochastic)
	require.ErrorIs(t, d.SetProbs([]float64{1.2, -0.2}), ErrNotStochastic)
	require.ErrorIs(t, d.SetProbs([]float64{0.6, 0.6}), ErrNotStochastic)

	// A rejected update must leave the distribution untouched.
	p, err = d.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0.9, p, 1e-15)
}

func TestDiscreteSetProbsCopiesInput(t *testing.T) {
	d := NewDiscrete(2)
	in := []float64{0.3, 0.7}
	require.NoError(t, d.SetProbs(in))
	in[0] = 0.99
	p, err := d.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0.3, p, 1e-15)
}

func TestDiscreteFit(t *testing.T) {
	d := NewDiscrete(3)
	d.Fit([]float64{2, 1, 1})
	require.InDelta(t, 0.5, d.Probs()[0], 1e-15)
	require.InDelta(t, 0.25, d.Probs()[1], 1e-15)
	require.InDelta(t, 0.25, d.Probs()[2], 1e-15)
}

func TestDiscreteFitZeroCountsResetsToUniform(t *testing.T) {
	d := NewDiscrete(2)
	require.NoError(t, d.SetProbs([]float64{0.9, 0.1}))
	d.Fit([]float64{0, 0})
	require.InDelta(t, 0.5, d.Probs()[0], 1e-15)
	require.InDelta(t, 0.5, d.Probs()[1], 1e-15)
}

func TestDiscreteSample(t *testing.T) {
	d := NewDiscrete(3)
	require.NoError(t, d.SetProbs([]float64{0.2, 0.5, 0.3}))

	first := make([]int, 100)
	src := rand.NewSource(7)
	for i := range first {
		k := d.Sample(src)
		require.GreaterOrEqual(t, k, 0)
		require.Less(t, k, 3)
		first[i] = k
	}

	// Same seed, same draws.
	src = rand.NewSource(7)
	for i := range first {
		require.Equal(t, first[i], d.Sample(src))
	}
}

func TestDiscreteProbsReturnsCopy(t *testing.T) {
	d := NewDiscrete(2)
	p := d.Probs()
	p[0] = 123
	require.InDelta(t, 0.5, d.Probs()[0], 1e-15)
}
