package hmm

import (
	"math"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// tieTol is the tolerance within which two log-domain scores are
// considered tied. Ties are broken toward the smallest state index so
// decoding is deterministic.
const tieTol = 1e-12

// Decode returns the most probable hidden state sequence for obs using
// the Viterbi algorithm, entirely in the log domain (log 0 = -Inf, and
// -Inf propagates through unreachable paths). The transition matrix is
// read column-stochastically: the score of moving j -> s uses A.At(s, j).
//
// It returns ErrEmptySequence for a zero-length sequence,
// ErrSymbolOutOfRange for observations outside [0, NumSymbols) and
// ErrNoFeasiblePath when every terminal score is -Inf.
func (m *Model) Decode(obs []int) ([]int, error) {
	if err := m.checkSequence(obs); err != nil {
		return nil, err
	}

	T := len(obs)
	S := m.states

	// delta[t][s] = best log score of any path ending in state s at t,
	// psi[t][s] = predecessor state on that path.
	delta := mathutil.NewMat(T, S)
	psi := make([][]int, T)
	for t := range psi {
		psi[t] = make([]int, S)
	}

	logTrans := mathutil.NewMat(S, S)
	for i := 0; i < S; i++ {
		for j := 0; j < S; j++ {
			logTrans[i][j] = mathutil.Log(m.trans.At(i, j))
		}
	}

	for s := 0; s < S; s++ {
		delta[0][s] = mathutil.Log(m.initial.AtVec(s)) + mathutil.Log(m.emissions[s].prob(obs[0]))
	}

	for t := 1; t < T; t++ {
		for s := 0; s < S; s++ {
			best := math.Inf(-1)
			bestPrev := 0
			for j := 0; j < S; j++ {
				score := delta[t-1][j] + logTrans[s][j]
				if score > best+tieTol {
					best = score
					bestPrev = j
				}
			}
			delta[t][s] = mathutil.Log(m.emissions[s].prob(obs[t])) + best
			psi[t][s] = bestPrev
		}
	}

	last := 0
	bestFinal := math.Inf(-1)
	for s := 0; s < S; s++ {
		if delta[T-1][s] > bestFinal+tieTol {
			bestFinal = delta[T-1][s]
			last = s
		}
	}
	if math.IsInf(bestFinal, -1) {
		return nil, ErrNoFeasiblePath
	}

	path := make([]int, T)
	path[T-1] = last
	for t := T - 2; t >= 0; t-- {
		path[t] = psi[t+1][path[t+1]]
	}
	return path, nil
}
