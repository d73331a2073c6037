package gmm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Expectation evaluates one sample. It returns log p(x) under the mixture and
// the posterior probability (responsibility) of every component, which sum to 1.
func (m *Model) Expectation(x []float64) (float64, []float64, error) {
	resp := make([]float64, m.nComponents)
	logProb, err := m.expect(x, resp)
	if err != nil {
		return 0, nil, err
	}
	return logProb, resp, nil
}

// expect fills lpr with the responsibilities of x and returns log p(x).
// lpr must have nComponents entries; it first holds
// log w_c + log N(x; μ_c, σ²_c) and is exponentiated in place.
func (m *Model) expect(x, lpr []float64) (float64, error) {
	if len(x) != m.nFeatures {
		return 0, &ErrDimensionMismatch{Expected: m.nFeatures, Actual: len(x)}
	}
	for c := 0; c < m.nComponents; c++ {
		lpr[c] = math.Log(m.weights[c]) + logDensity(x, m.means.RawRowView(c), m.covars.RawRowView(c))
	}
	// LogSumExp shifts by the maximum before exponentiating.
	logProb := floats.LogSumExp(lpr)
	for c := range lpr {
		lpr[c] = math.Exp(lpr[c] - logProb)
	}
	return logProb, nil
}

// Score returns log p(x) under the mixture. It is identical to the first
// result of Expectation.
func (m *Model) Score(x []float64) (float64, error) {
	logProb, _, err := m.Expectation(x)
	return logProb, err
}

// ScoreBatch returns log p(x) for every row of xs, evaluating all components
// with one matrix product.
func (m *Model) ScoreBatch(xs mat.Matrix) ([]float64, error) {
	s, d := xs.Dims()
	if d != m.nFeatures {
		return nil, &ErrDimensionMismatch{Expected: m.nFeatures, Actual: d}
	}
	lp, err := LogDensityBatch(xs, m.means, m.covars)
	if err != nil {
		return nil, err
	}
	logW := make([]float64, m.nComponents)
	for c, w := range m.weights {
		logW[c] = math.Log(w)
	}
	out := make([]float64, s)
	for t := 0; t < s; t++ {
		row := lp.RawRowView(t)
		floats.Add(row, logW)
		out[t] = floats.LogSumExp(row)
	}
	return out, nil
}
