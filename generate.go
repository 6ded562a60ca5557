package hmm

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// Generate samples an observation sequence of the given length from the
// model together with the hidden state path that produced it. The state
// at t=0 is drawn from the initial distribution, each following state
// from the corresponding column of the transition matrix, and each
// observation from the emission distribution of the current state.
// Sampling is deterministic for a fixed source. length < 1 returns
// ErrEmptySequence.
func (m *Model) Generate(length int, src rand.Source) (obs, states []int, err error) {
	if length < 1 {
		return nil, nil, fmt.Errorf("%w: requested length %d", ErrEmptySequence, length)
	}

	obs = make([]int, length)
	states = make([]int, length)

	initial := distuv.NewCategorical(m.initial.RawVector().Data, src)
	state := int(initial.Rand())
	states[0] = state
	obs[0] = m.emissions[state].Sample(src)

	col := mathutil.NewVec(m.states)
	for t := 1; t < length; t++ {
		for i := 0; i < m.states; i++ {
			col[i] = m.trans.At(i, state)
		}
		next := distuv.NewCategorical(col, src)
		state = int(next.Rand())
		states[t] = state
		obs[t] = m.emissions[state].Sample(src)
	}
	return obs, states, nil
}
