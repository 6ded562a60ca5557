// Command hmmdemo builds a small two-state discrete HMM, prints its
// parameters, decodes an observation sequence with Viterbi, reports the
// sequence log-likelihood and finally retrains the model on the sequence
// with Baum-Welch.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	hmm "github.com/ieee0824/hmm-go"
)

func main() {
	seqFlag := flag.String("seq", "0,0,1,0,1,1", "comma-separated observation sequence over {0,1}")
	maxIter := flag.Int("iter", 500, "max Baum-Welch iterations")
	tol := flag.Float64("tol", 1e-5, "Baum-Welch convergence tolerance")
	floor := flag.Float64("floor", 1e-12, "probability floor applied after each M-step")
	flag.Parse()

	obs, err := parseSequence(*seqFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse sequence: %v\n", err)
		os.Exit(1)
	}

	// State 0 mostly emits symbol 0, state 1 mostly emits symbol 1.
	emit0 := hmm.NewDiscrete(2)
	emit1 := hmm.NewDiscrete(2)
	if err := emit0.SetProbs([]float64{0.9, 0.1}); err != nil {
		fmt.Fprintf(os.Stderr, "emission 0: %v\n", err)
		os.Exit(1)
	}
	if err := emit1.SetProbs([]float64{0.2, 0.8}); err != nil {
		fmt.Fprintf(os.Stderr, "emission 1: %v\n", err)
		os.Exit(1)
	}

	initial := mat.NewVecDense(2, []float64{0.5, 0.5})
	// Column-stochastic: entry (i, j) = P(next=i | current=j).
	transition := mat.NewDense(2, 2, []float64{
		0.8, 0.3,
		0.2, 0.7,
	})

	model, err := hmm.New(initial, transition, []*hmm.Discrete{emit0, emit1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "construct model: %v\n", err)
		os.Exit(1)
	}

	printModel(model)

	fmt.Printf("Observation sequence: %v\n\n", obs)

	states, err := model.Decode(obs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Predicted hidden states (Viterbi): %v\n", states)

	logLik, err := model.LogLikelihood(obs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log-likelihood: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Log-likelihood of observation sequence: %g\n\n", logLik)

	cfg := hmm.TrainConfig{
		MaxIterations: *maxIter,
		Tolerance:     *tol,
		Floor:         *floor,
	}
	result, err := model.Train([][]int{obs}, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "train: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Baum-Welch finished after %d iterations (converged=%v, log-likelihood %g)\n\n",
		result.Iterations, result.Converged, result.LogLikelihood)

	fmt.Println("Parameters after Baum-Welch training:")
	printModel(model)
}

func parseSequence(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	obs := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		obs = append(obs, v)
	}
	return obs, nil
}

func printModel(m *hmm.Model) {
	fmt.Println("Initial state probabilities:")
	fmt.Printf("%v\n\n", mat.Formatted(m.Initial().T()))

	fmt.Println("State transition matrix (columns sum to 1):")
	fmt.Printf("%v\n\n", mat.Formatted(m.Transition()))

	fmt.Println("Emission probabilities for each state:")
	for s := 0; s < m.NumStates(); s++ {
		fmt.Printf("  State %d: %v\n", s, m.Emission(s).Probs())
	}
	fmt.Println()
}
