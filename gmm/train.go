package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eps is float64 machine epsilon. It smooths the re-estimation so that a
// component with (almost) no responsibility mass never divides by zero.
const eps = 2.220446049250313e-16

// Dataset is a forward-only sequence of feature vectors that can be replayed.
// Each call to Each must visit the complete sequence; Fit calls it once per
// EM iteration. fn must not retain x after returning. An error from fn stops
// the pass and is returned by Each.
type Dataset interface {
	Each(fn func(x []float64) error) error
}

// Vectors is an in-memory Dataset.
type Vectors [][]float64

// Each implements Dataset.
func (v Vectors) Each(fn func(x []float64) error) error {
	for _, x := range v {
		if err := fn(x); err != nil {
			return err
		}
	}
	return nil
}

// accumulators holds the sufficient statistics of one EM pass.
type accumulators struct {
	weights []float64   // [k] Σ r_c
	means   [][]float64 // [k][d] Σ r_c*x
	covars  [][]float64 // [k][d] Σ r_c*(x-μ_c)² with the pass's starting means
	logProb float64
	n       int
}

func newAccumulators(k, d int) *accumulators {
	acc := &accumulators{
		weights: make([]float64, k),
		means:   make([][]float64, k),
		covars:  make([][]float64, k),
	}
	for c := 0; c < k; c++ {
		acc.means[c] = make([]float64, d)
		acc.covars[c] = make([]float64, d)
	}
	return acc
}

func (acc *accumulators) reset() {
	for c := range acc.weights {
		acc.weights[c] = 0
		clear(acc.means[c])
		clear(acc.covars[c])
	}
	acc.logProb = 0
	acc.n = 0
}

// Fit runs up to NIter EM passes over ds, updating the model in place.
//
// Every pass accumulates responsibilities against the parameters the pass
// started with; the parameters are replaced only after the full pass. Fit
// stops early once, from the fourth pass on, the mean log-likelihood changes
// by less than Thresh; that final pass does not re-estimate.
//
// A dimension mismatch or a dataset error aborts Fit. Parameters written by
// passes that completed before the failure are kept.
func (m *Model) Fit(ds Dataset) error {
	k, d := m.nComponents, m.nFeatures
	acc := newAccumulators(k, d)
	resp := make([]float64, k)
	m.logProbs = m.logProbs[:0]

	for iter := 0; iter < m.nIter; iter++ {
		acc.reset()

		err := ds.Each(func(x []float64) error {
			logProb, err := m.expect(x, resp)
			if err != nil {
				return err
			}
			for c := 0; c < k; c++ {
				r := resp[c]
				acc.weights[c] += r
				mean := m.means.RawRowView(c)
				meanAcc := acc.means[c]
				covarAcc := acc.covars[c]
				for j, xj := range x {
					meanAcc[j] += r * xj
					diff := xj - mean[j]
					covarAcc[j] += r * diff * diff
				}
			}
			acc.logProb += logProb
			acc.n++
			return nil
		})
		if err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}
		if acc.n == 0 {
			return ErrEmptyDataset
		}

		meanLogProb := acc.logProb / float64(acc.n)
		m.logProbs = append(m.logProbs, meanLogProb)
		m.logger.Debug("em iteration",
			"iter", iter,
			"log_prob", meanLogProb,
			"samples", acc.n,
			"components", k,
			"weight_sum", m.weightSum(),
		)

		if iter > 2 && math.Abs(m.logProbs[iter]-m.logProbs[iter-1]) < m.thresh {
			m.logger.Info("em converged", "iter", iter, "log_prob", meanLogProb)
			break
		}

		m.reestimate(acc)
	}
	return nil
}

// reestimate replaces weights, means and covars from the accumulated
// statistics with eps smoothing and the MinCovar floor.
func (m *Model) reestimate(acc *accumulators) {
	k, d := m.nComponents, m.nFeatures
	kEps := float64(k) * eps
	n := float64(acc.n)

	weights := make([]float64, k)
	means := mat.NewDense(k, d, nil)
	covars := mat.NewDense(k, d, nil)
	for c := 0; c < k; c++ {
		weights[c] = (acc.weights[c] + eps) / (n + kEps)
		denom := acc.weights[c] + kEps
		meanRow := means.RawRowView(c)
		covarRow := covars.RawRowView(c)
		for j := 0; j < d; j++ {
			meanRow[j] = (acc.means[c][j] + eps) / denom
			covarRow[j] = (acc.covars[c][j]+eps)/denom + m.minCovar
		}
	}

	m.weights, m.means, m.covars = weights, means, covars
	m.assertShape()
}
