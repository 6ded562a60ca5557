package hmm

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/hmm-go/internal/mathutil"
)

// TrainConfig holds Baum-Welch training parameters.
type TrainConfig struct {
	// MaxIterations caps the number of EM iterations. Zero or negative
	// selects the default of 500.
	MaxIterations int
	// Tolerance stops training once the absolute change in total
	// log-likelihood between iterations falls below it. Zero or negative
	// selects the default of 1e-5.
	Tolerance float64
	// Floor is the minimum probability applied to every entry of the
	// initial vector, each transition column and each emission row after
	// the M-step, before renormalization. Zero disables flooring and
	// matches the naive update; 1e-12 keeps entries from collapsing to
	// exact zero on short sequences.
	Floor float64
	// Workers > 1 runs the E-step over the training sequences on that
	// many goroutines. Results are reproducible for a fixed worker count.
	Workers int
	// Logger, when non-nil, receives per-iteration progress at Debug
	// level.
	Logger *slog.Logger
}

// DefaultTrainConfig returns the recommended training parameters.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MaxIterations: 500,
		Tolerance:     1e-5,
		Floor:         1e-12,
	}
}

// TrainResult reports the outcome of a training run.
type TrainResult struct {
	// Iterations is the number of EM iterations performed.
	Iterations int
	// LogLikelihood is the total log-likelihood of the training sequences
	// under the final parameters.
	LogLikelihood float64
	// History holds the total log-likelihood observed at each iteration.
	History []float64
	// Converged is true when the tolerance was reached before the
	// iteration cap.
	Converged bool
}

// bwAccum holds the sufficient statistics of the E-step. Transition
// statistics follow the column-stochastic convention: transNum[i][j]
// accumulates xi for the move j -> i and transDen[j] the occupancy of the
// source state j.
type bwAccum struct {
	init     mathutil.Vec // [S]
	transNum mathutil.Mat // [S][S]
	transDen mathutil.Vec // [S]
	emitNum  mathutil.Mat // [S][K]
	emitDen  mathutil.Vec // [S]
	logLik   float64
}

func newBWAccum(states, symbols int) *bwAccum {
	return &bwAccum{
		init:     mathutil.NewVec(states),
		transNum: mathutil.NewMat(states, states),
		transDen: mathutil.NewVec(states),
		emitNum:  mathutil.NewMat(states, symbols),
		emitDen:  mathutil.NewVec(states),
	}
}

func (a *bwAccum) reset() {
	mathutil.FillVec(a.init, 0)
	mathutil.FillMat(a.transNum, 0)
	mathutil.FillVec(a.transDen, 0)
	mathutil.FillMat(a.emitNum, 0)
	mathutil.FillVec(a.emitDen, 0)
	a.logLik = 0
}

func (a *bwAccum) add(b *bwAccum) {
	for s := range a.init {
		a.init[s] += b.init[s]
		a.transDen[s] += b.transDen[s]
		a.emitDen[s] += b.emitDen[s]
	}
	for i := range a.transNum {
		for j := range a.transNum[i] {
			a.transNum[i][j] += b.transNum[i][j]
		}
	}
	for s := range a.emitNum {
		for k := range a.emitNum[s] {
			a.emitNum[s][k] += b.emitNum[s][k]
		}
	}
	a.logLik += b.logLik
}

// accumulate runs the scaled forward-backward pass on one sequence and
// adds its statistics to acc. The pair posteriors xi are folded into the
// transition accumulators on the fly rather than materialized as an
// SxSx(T-1) array.
func (m *Model) accumulate(obs []int, acc *bwAccum) error {
	lat, err := m.forwardBackward(obs)
	if err != nil {
		return err
	}
	acc.logLik += lat.logLik

	T := len(obs)
	S := m.states
	for s := 0; s < S; s++ {
		acc.init[s] += lat.gamma(0, s)
	}

	bNext := mathutil.NewVec(S)
	for t := 0; t < T-1; t++ {
		for j := 0; j < S; j++ {
			acc.transDen[j] += lat.gamma(t, j)
		}
		for i := 0; i < S; i++ {
			bNext[i] = m.emissions[i].prob(obs[t+1]) * lat.beta[t+1][i]
		}
		// xi_t(i, j) = alpha_t(j) * A[i, j] * B[i, O_{t+1}] * beta_{t+1}(i)
		for i := 0; i < S; i++ {
			for j := 0; j < S; j++ {
				acc.transNum[i][j] += lat.alpha[t][j] * m.trans.At(i, j) * bNext[i]
			}
		}
	}

	for t := 0; t < T; t++ {
		for s := 0; s < S; s++ {
			g := lat.gamma(t, s)
			acc.emitNum[s][obs[t]] += g
			acc.emitDen[s] += g
		}
	}
	return nil
}

// Train re-estimates the model parameters from one or more observation
// sequences with batch Baum-Welch (EM), mutating the model in place. Each
// iteration computes the new initial vector, transition columns and
// emission rows into scratch storage and swaps them in together.
//
// A state whose transition or emission denominator is zero keeps its
// previous column or row untouched for that iteration, so unvisited
// states never divide by zero.
//
// Train requires exclusive access to the model. All sequences are
// validated before the first iteration; ErrEmptySequence and
// ErrSymbolOutOfRange surface immediately and leave the model unchanged.
// A mid-run failure aborts training and wraps the iteration index around
// the cause.
func (m *Model) Train(sequences [][]int, cfg TrainConfig) (TrainResult, error) {
	var res TrainResult
	if len(sequences) == 0 {
		return res, fmt.Errorf("%w: no training sequences", ErrEmptySequence)
	}
	for n, obs := range sequences {
		if err := m.checkSequence(obs); err != nil {
			return res, fmt.Errorf("sequence %d: %w", n, err)
		}
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 500
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-5
	}
	workers := cfg.Workers
	if workers > len(sequences) {
		workers = len(sequences)
	}

	S := m.states
	K := m.symbols
	total := newBWAccum(S, K)
	var parts []*bwAccum
	if workers > 1 {
		parts = make([]*bwAccum, workers)
		for w := range parts {
			parts[w] = newBWAccum(S, K)
		}
	}

	// Scratch for the atomic per-iteration swap.
	newInit := mathutil.NewVec(S)
	newTrans := mat.NewDense(S, S, nil)
	newEmit := mathutil.NewMat(S, K)
	col := mathutil.NewVec(S)

	prevLL := math.NaN()
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		total.reset()
		if workers > 1 {
			if err := m.accumulateParallel(sequences, parts, total); err != nil {
				return res, fmt.Errorf("iteration %d: %w", iter, err)
			}
		} else {
			for n, obs := range sequences {
				if err := m.accumulate(obs, total); err != nil {
					return res, fmt.Errorf("iteration %d: sequence %d: %w", iter, n, err)
				}
			}
		}

		L := total.logLik
		res.Iterations = iter
		res.LogLikelihood = L
		res.History = append(res.History, L)
		if cfg.Logger != nil {
			cfg.Logger.Debug("baum-welch iteration",
				"iteration", iter, "loglik", L, "delta", L-prevLL)
		}
		if !math.IsNaN(prevLL) && math.Abs(L-prevLL) < cfg.Tolerance {
			res.Converged = true
			return res, nil
		}
		prevLL = L

		// M-step into scratch.
		nSeq := float64(len(sequences))
		for s := 0; s < S; s++ {
			newInit[s] = total.init[s] / nSeq
		}
		mathutil.Floor(newInit, cfg.Floor)
		mathutil.Normalize(newInit)

		for j := 0; j < S; j++ {
			if total.transDen[j] == 0 {
				// State j was never occupied before the last step; its
				// outgoing column carries over verbatim.
				mat.Col(col, j, m.trans)
			} else {
				for i := 0; i < S; i++ {
					col[i] = total.transNum[i][j] / total.transDen[j]
				}
				mathutil.Floor(col, cfg.Floor)
				mathutil.Normalize(col)
			}
			newTrans.SetCol(j, col)
		}

		for s := 0; s < S; s++ {
			if total.emitDen[s] == 0 {
				copy(newEmit[s], m.emissions[s].probs)
				continue
			}
			for k := 0; k < K; k++ {
				newEmit[s][k] = total.emitNum[s][k] / total.emitDen[s]
			}
			mathutil.Floor(newEmit[s], cfg.Floor)
			mathutil.Normalize(newEmit[s])
		}

		// Swap.
		copy(m.initial.RawVector().Data, newInit)
		m.trans.Copy(newTrans)
		for s := 0; s < S; s++ {
			copy(m.emissions[s].probs, newEmit[s])
		}
	}
	return res, nil
}

// accumulateParallel fans the E-step out over contiguous chunks of
// sequences, one partial accumulator per worker, and reduces the partials
// in chunk order so results are reproducible for a fixed worker count.
func (m *Model) accumulateParallel(sequences [][]int, parts []*bwAccum, total *bwAccum) error {
	workers := len(parts)
	errs := make([]error, workers)
	base := len(sequences) / workers
	rem := len(sequences) % workers

	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		lo, hi := start, start+size
		start = hi
		parts[w].reset()
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for n := lo; n < hi; n++ {
				if err := m.accumulate(sequences[n], parts[w]); err != nil {
					errs[w] = fmt.Errorf("sequence %d: %w", n, err)
					return
				}
			}
		}(w, lo, hi)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			return errs[w]
		}
	}
	for w := 0; w < workers; w++ {
		total.add(parts[w])
	}
	return nil
}
