package hmm

import "errors"

// Error kinds surfaced by the package. All returned errors wrap exactly
// one of these sentinels; match with errors.Is. Nothing is retried or
// silently recovered.
var (
	// ErrInvalidParameters reports a model constructed from non-stochastic
	// or shape-mismatched parameters.
	ErrInvalidParameters = errors.New("hmm: invalid parameters")

	// ErrEmptySequence reports an observation sequence of length zero.
	ErrEmptySequence = errors.New("hmm: empty observation sequence")

	// ErrSymbolOutOfRange reports an observation outside [0, K).
	ErrSymbolOutOfRange = errors.New("hmm: symbol out of range")

	// ErrZeroProbability reports an observation sequence that is
	// impossible under the current model parameters.
	ErrZeroProbability = errors.New("hmm: zero probability observation sequence")

	// ErrNoFeasiblePath reports that Viterbi found no state path with a
	// finite score.
	ErrNoFeasiblePath = errors.New("hmm: no feasible state path")

	// ErrNotStochastic reports a rejected probability vector.
	ErrNotStochastic = errors.New("hmm: probabilities are not stochastic")
)
