// Package gmm implements a diagonal-covariance Gaussian mixture model trained
// by expectation-maximization over streamed feature vectors.
//
// Capacity is grown incrementally with Mixup, which splits the heaviest
// component into two perturbed copies; Fit is then run again to adapt them.
//
// A Model is not safe for concurrent mutation. Expectation, Score and
// ScoreBatch only read the model and may run concurrently with each other
// while nothing calls Fit, Mixup or SetRand.
package gmm

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/mixture/internal/mathutil"
)

// Model is a Gaussian mixture with diagonal covariances.
type Model struct {
	nFeatures   int
	nComponents int
	thresh      float64
	minCovar    float64
	nIter       int

	weights []float64  // [k]
	means   *mat.Dense // [k x d]
	covars  *mat.Dense // [k x d] diagonal variances

	logProbs []float64 // mean log-likelihood per iteration of the last Fit

	logger *slog.Logger
	rng    Rand
}

// New creates a model with uniform weights, zero means and unit variances.
func New(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, d := cfg.NComponents, cfg.NFeatures
	m := newModel(cfg, opts)
	m.weights = mathutil.NewVecFill(k, 1.0/float64(k))
	m.means = mat.NewDense(k, d, nil)
	m.covars = mat.NewDense(k, d, mathutil.NewVecFill(k*d, 1.0))
	m.assertShape()
	return m, nil
}

// NewWithParams creates a model from explicit parameters. cfg.NComponents and
// cfg.NFeatures must agree with the shapes of the given slices.
func NewWithParams(cfg Config, weights []float64, means, covars [][]float64, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, d := cfg.NComponents, cfg.NFeatures
	if len(weights) != k {
		return nil, fmt.Errorf("%w: %d weights for %d components", ErrInvalidConfiguration, len(weights), k)
	}
	if err := checkWeights(weights); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	meanM, err := mathutil.DenseFromRows(means, k, d)
	if err != nil {
		return nil, wrapShapeError("means", err)
	}
	covarM, err := mathutil.DenseFromRows(covars, k, d)
	if err != nil {
		return nil, wrapShapeError("covars", err)
	}
	for i := 0; i < k; i++ {
		for _, v := range covarM.RawRowView(i) {
			if !(v > 0) {
				return nil, fmt.Errorf("%w: covariance of component %d must be positive, got %g", ErrInvalidConfiguration, i, v)
			}
		}
	}

	m := newModel(cfg, opts)
	m.weights = append([]float64(nil), weights...)
	m.means = meanM
	m.covars = covarM
	m.assertShape()
	return m, nil
}

func newModel(cfg Config, opts []Option) *Model {
	m := &Model{
		nFeatures:   cfg.NFeatures,
		nComponents: cfg.NComponents,
		thresh:      cfg.Thresh,
		minCovar:    cfg.MinCovar,
		nIter:       cfg.NIter,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = newDefaultRand()
	}
	return m
}

// weightSumTolerance bounds how far the mixture weights may sum away from 1.
const weightSumTolerance = 1e-9

// checkWeights requires non-negative weights summing to 1.
func checkWeights(w []float64) error {
	for c, v := range w {
		if !(v >= 0) {
			return fmt.Errorf("weight of component %d must be non-negative, got %g", c, v)
		}
	}
	if sum := floats.Sum(w); !(math.Abs(sum-1) <= weightSumTolerance) {
		return fmt.Errorf("weights sum to %g, want 1", sum)
	}
	return nil
}

func wrapShapeError(name string, err error) error {
	if rm, ok := err.(*mathutil.ShapeError); ok {
		if rm.Row >= 0 {
			return fmt.Errorf("%s row %d: %w", name, rm.Row, &ErrDimensionMismatch{Expected: rm.Want, Actual: rm.Got})
		}
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrInvalidConfiguration, name, rm.Got, rm.Want)
	}
	return err
}

// assertShape panics when the parameter containers disagree with
// nComponents/nFeatures. It runs after construction and every mutation.
func (m *Model) assertShape() {
	k, d := m.nComponents, m.nFeatures
	if len(m.weights) != k {
		panic(fmt.Sprintf("gmm: weights has %d entries, want %d", len(m.weights), k))
	}
	if r, c := m.means.Dims(); r != k || c != d {
		panic(fmt.Sprintf("gmm: means is %dx%d, want %dx%d", r, c, k, d))
	}
	if r, c := m.covars.Dims(); r != k || c != d {
		panic(fmt.Sprintf("gmm: covars is %dx%d, want %dx%d", r, c, k, d))
	}
}

// SetRand replaces the random source used by Mixup.
func (m *Model) SetRand(r Rand) {
	if r != nil {
		m.rng = r
	}
}

// NFeatures returns the feature dimension.
func (m *Model) NFeatures() int { return m.nFeatures }

// NComponents returns the current number of mixture components.
func (m *Model) NComponents() int { return m.nComponents }

// Thresh returns the convergence threshold.
func (m *Model) Thresh() float64 { return m.thresh }

// MinCovar returns the variance floor.
func (m *Model) MinCovar() float64 { return m.minCovar }

// NIter returns the maximum number of EM passes per Fit.
func (m *Model) NIter() int { return m.nIter }

// Config returns the scalar parameters of the model. NComponents reflects the
// current component count.
func (m *Model) Config() Config {
	return Config{
		NFeatures:   m.nFeatures,
		NComponents: m.nComponents,
		Thresh:      m.thresh,
		MinCovar:    m.minCovar,
		NIter:       m.nIter,
	}
}

// Weights returns a copy of the mixture weights.
func (m *Model) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// Means returns a copy of the component means as a k x d matrix.
func (m *Model) Means() *mat.Dense { return mat.DenseCopyOf(m.means) }

// Covars returns a copy of the component variances as a k x d matrix.
func (m *Model) Covars() *mat.Dense { return mat.DenseCopyOf(m.covars) }

// LogProbs returns the mean log-likelihood of every iteration of the most
// recent Fit.
func (m *Model) LogProbs() []float64 {
	return append([]float64(nil), m.logProbs...)
}

func (m *Model) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "W: %v\n", m.weights)
	fmt.Fprintf(&sb, "M: %v\n", mat.Formatted(m.means, mat.Squeeze()))
	fmt.Fprintf(&sb, "C: %v", mat.Formatted(m.covars, mat.Squeeze()))
	return sb.String()
}

func (m *Model) weightSum() float64 { return floats.Sum(m.weights) }
