package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ieee0824/mixture/internal/mathutil"
)

// perturbScale is the standard-deviation factor applied to a split
// component's variance when drawing the means of its two children.
const perturbScale = 0.2

// Mixup adds nNew components. Each step splits the heaviest component (the
// first one on ties) into two children with half its weight, its variance,
// and means drawn from N(μ, diag(σ² * 0.2²)). The parent row is removed, so
// every step adds one component. Mixup does not retrain; call Fit afterwards.
func (m *Model) Mixup(nNew int) error {
	if nNew < 0 {
		return fmt.Errorf("%w: mixup count must be non-negative, got %d", ErrInvalidConfiguration, nNew)
	}
	for i := 0; i < nNew; i++ {
		m.split(floats.MaxIdx(m.weights))
	}
	return nil
}

func (m *Model) split(c int) {
	weight := m.weights[c]
	mean := m.means.RawRowView(c)
	covar := append([]float64(nil), m.covars.RawRowView(c)...)

	first := m.perturb(mean, covar)
	second := m.perturb(mean, covar)

	weights := append(append([]float64(nil), m.weights...), weight/2, weight/2)
	means := mathutil.AppendRows(m.means, first, second)
	covars := mathutil.AppendRows(m.covars, covar, covar)

	m.weights = mathutil.DeleteElem(weights, c)
	m.means = mathutil.DeleteRow(means, c)
	m.covars = mathutil.DeleteRow(covars, c)
	m.nComponents++
	m.assertShape()
}

// perturb draws one sample from N(mean, diag(covar * perturbScale²)).
func (m *Model) perturb(mean, covar []float64) []float64 {
	out := make([]float64, len(mean))
	for j := range mean {
		out[j] = mean[j] + perturbScale*math.Sqrt(covar[j])*m.rng.NormFloat64()
	}
	return out
}
