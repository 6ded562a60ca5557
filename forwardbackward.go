package hmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// lattice holds the scaled forward-backward variables for one
// observation sequence. It is allocated per invocation and never escapes
// the package.
//
// The scaling follows Rabiner: at every step the forward variables are
// normalized by their sum, scale[t] stores the inverse of that sum, and
// the sequence log-likelihood is recovered as -sum(log(scale)).
type lattice struct {
	alpha  mathutil.Mat // [T][S] scaled forward variables
	beta   mathutil.Mat // [T][S] scaled backward variables
	scale  mathutil.Vec // [T] scaling factors c_t
	logLik float64
}

// gamma returns the posterior probability of state s at time t,
// gamma_t(s) = alpha_t(s) * beta_t(s) / c_t.
func (l *lattice) gamma(t, s int) float64 {
	return l.alpha[t][s] * l.beta[t][s] / l.scale[t]
}

// forward runs the scaled forward pass. obs must already be validated.
// It returns ErrZeroProbability when the scaling denominator vanishes,
// which means the sequence is impossible under the current parameters.
func (m *Model) forward(obs []int) (mathutil.Mat, mathutil.Vec, float64, error) {
	T := len(obs)
	S := m.states
	alpha := mathutil.NewMat(T, S)
	scale := mathutil.NewVec(T)

	sum := 0.0
	for s := 0; s < S; s++ {
		alpha[0][s] = m.initial.AtVec(s) * m.emissions[s].prob(obs[0])
		sum += alpha[0][s]
	}
	if sum == 0 {
		return nil, nil, 0, fmt.Errorf("%w: at time 0", ErrZeroProbability)
	}
	scale[0] = 1 / sum
	logLik := math.Log(sum)
	for s := 0; s < S; s++ {
		alpha[0][s] *= scale[0]
	}

	// alpha~_t = B[., O_t] .* (A * alpha_{t-1}); A is column-stochastic
	// so the matrix-vector product sums over the previous state.
	var prod mat.VecDense
	for t := 1; t < T; t++ {
		prev := mat.NewVecDense(S, alpha[t-1])
		prod.MulVec(m.trans, prev)
		sum = 0
		for s := 0; s < S; s++ {
			alpha[t][s] = m.emissions[s].prob(obs[t]) * prod.AtVec(s)
			sum += alpha[t][s]
		}
		if sum == 0 {
			return nil, nil, 0, fmt.Errorf("%w: at time %d", ErrZeroProbability, t)
		}
		scale[t] = 1 / sum
		logLik += math.Log(sum)
		for s := 0; s < S; s++ {
			alpha[t][s] *= scale[t]
		}
	}
	return alpha, scale, logLik, nil
}

// backward runs the scaled backward pass using the forward scaling
// factors. obs must already be validated.
func (m *Model) backward(obs []int, scale mathutil.Vec) mathutil.Mat {
	T := len(obs)
	S := m.states
	beta := mathutil.NewMat(T, S)

	for s := 0; s < S; s++ {
		beta[T-1][s] = scale[T-1]
	}

	// beta_t(s) = c_t * sum_j A[j, s] * B[j, O_{t+1}] * beta_{t+1}(j),
	// computed as c_t * (A^T * (B[., O_{t+1}] .* beta_{t+1})).
	weighted := mathutil.NewVec(S)
	var prod mat.VecDense
	for t := T - 2; t >= 0; t-- {
		for j := 0; j < S; j++ {
			weighted[j] = m.emissions[j].prob(obs[t+1]) * beta[t+1][j]
		}
		prod.MulVec(m.trans.T(), mat.NewVecDense(S, weighted))
		for s := 0; s < S; s++ {
			beta[t][s] = scale[t] * prod.AtVec(s)
		}
	}
	return beta
}

// forwardBackward runs both passes and assembles the lattice.
func (m *Model) forwardBackward(obs []int) (*lattice, error) {
	alpha, scale, logLik, err := m.forward(obs)
	if err != nil {
		return nil, err
	}
	return &lattice{
		alpha:  alpha,
		beta:   m.backward(obs, scale),
		scale:  scale,
		logLik: logLik,
	}, nil
}

// LogLikelihood returns log P(obs | model) computed with the scaled
// forward pass. It returns ErrEmptySequence for a zero-length sequence,
// ErrSymbolOutOfRange for observations outside [0, NumSymbols) and
// ErrZeroProbability when the sequence is impossible under the model.
func (m *Model) LogLikelihood(obs []int) (float64, error) {
	if err := m.checkSequence(obs); err != nil {
		return 0, err
	}
	_, _, logLik, err := m.forward(obs)
	if err != nil {
		return 0, err
	}
	return logLik, nil
}

// Posteriors returns the state posteriors gamma, a [len(obs)][NumStates]
// matrix where entry (t, s) is P(state=s at time t | obs, model). Errors
// are as for LogLikelihood.
func (m *Model) Posteriors(obs []int) ([][]float64, error) {
	if err := m.checkSequence(obs); err != nil {
		return nil, err
	}
	lat, err := m.forwardBackward(obs)
	if err != nil {
		return nil, err
	}
	T := len(obs)
	gamma := mathutil.NewMat(T, m.states)
	for t := 0; t < T; t++ {
		for s := 0; s < m.states; s++ {
			gamma[t][s] = lat.gamma(t, s)
		}
	}
	return gamma, nil
}
