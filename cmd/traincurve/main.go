// Command traincurve trains the demo HMM on an observation sequence and
// renders the per-iteration total log-likelihood to a PNG, which makes
// the monotone convergence of Baum-Welch visible.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	hmm "github.com/ieee0824/hmm-go"
)

func main() {
	seqFlag := flag.String("seq", "0,0,1,0,1,1", "comma-separated observation sequence over {0,1}")
	output := flag.String("output", "traincurve.png", "output PNG path")
	maxIter := flag.Int("iter", 500, "max Baum-Welch iterations")
	tol := flag.Float64("tol", 1e-5, "convergence tolerance")
	floor := flag.Float64("floor", 1e-12, "probability floor")
	flag.Parse()

	obs, err := parseSequence(*seqFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse sequence: %v\n", err)
		os.Exit(1)
	}

	model, err := demoModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "construct model: %v\n", err)
		os.Exit(1)
	}

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
	fmt.Fprintf(os.Stderr, "trained for %d iterations, final log-likelihood %g\n",
		result.Iterations, result.LogLikelihood)

	p := plot.New()
	p.Title.Text = "Baum-Welch convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "total log-likelihood"

	pts := make(plotter.XYs, len(result.History))
	for i, ll := range result.History {
		pts[i].X = float64(i + 1)
		pts[i].Y = ll
	}
	if err := plotutil.AddLinePoints(p, "log-likelihood", pts); err != nil {
		fmt.Fprintf(os.Stderr, "plot: %v\n", err)
		os.Exit(1)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		fmt.Fprintf(os.Stderr, "save plot: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *output)
}

func demoModel() (*hmm.Model, error) {
	emit0 := hmm.NewDiscrete(2)
	emit1 := hmm.NewDiscrete(2)
	if err := emit0.SetProbs([]float64{0.9, 0.1}); err != nil {
		return nil, err
	}
	if err := emit1.SetProbs([]float64{0.2, 0.8}); err != nil {
		return nil, err
	}
	initial := mat.NewVecDense(2, []float64{0.5, 0.5})
	transition := mat.NewDense(2, 2, []float64{
		0.8, 0.3,
		0.2, 0.7,
	})
	return hmm.New(initial, transition, []*hmm.Discrete{emit0, emit1})
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
