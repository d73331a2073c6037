package gmm

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLogDensityStandardNormal(t *testing.T) {
	// Standard normal at x=0: log(1/sqrt(2π)) ≈ -0.9189
	lp, err := LogDensity([]float64{0}, []float64{0}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), lp, 1e-12)
	assert.InDelta(t, -0.9189, lp, 1e-4)

	lp5, err := LogDensity([]float64{5}, []float64{0}, []float64{1})
	require.NoError(t, err)
	assert.Less(t, lp5, lp)
}

func TestLogDensityDiagonal(t *testing.T) {
	x := []float64{1, -2}
	mean := []float64{0, 1}
	covar := []float64{2, 0.5}
	want := 0.0
	for i := range x {
		d := x[i] - mean[i]
		want += -0.5*math.Log(2*math.Pi*covar[i]) - 0.5*d*d/covar[i]
	}
	got, err := LogDensity(x, mean, covar)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLogDensityDimensionMismatch(t *testing.T) {
	var dm *ErrDimensionMismatch

	_, err := LogDensity([]float64{0, 0}, []float64{0}, []float64{1})
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Expected)
	assert.Equal(t, 2, dm.Actual)

	_, err = LogDensity([]float64{0}, []float64{0}, []float64{1, 1})
	require.ErrorAs(t, err, &dm)
}

func randomDense(rng *rand.Rand, r, c int, f func(float64) float64) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = f(rng.NormFloat64())
	}
	return mat.NewDense(r, c, data)
}

func TestLogDensityBatchMatchesSingle(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for _, k := range []int{1, 2, 4, 8} {
		const dim, n = 13, 50
		xs := randomDense(rng, n, dim, func(v float64) float64 { return v })
		means := randomDense(rng, k, dim, func(v float64) float64 { return v })
		covars := randomDense(rng, k, dim, func(v float64) float64 { return 0.5 + v*v })

		got, err := LogDensityBatch(xs, means, covars)
		require.NoError(t, err)
		r, c := got.Dims()
		require.Equal(t, n, r)
		require.Equal(t, k, c)

		for i := 0; i < n; i++ {
			for comp := 0; comp < k; comp++ {
				want, err := LogDensity(xs.RawRowView(i), means.RawRowView(comp), covars.RawRowView(comp))
				require.NoError(t, err)
				assert.InDelta(t, want, got.At(i, comp), 1e-8, "k=%d sample %d component %d", k, i, comp)
			}
		}
	}
}

func TestLogDensityBatchDimensionMismatch(t *testing.T) {
	xs := mat.NewDense(2, 3, nil)
	var dm *ErrDimensionMismatch

	_, err := LogDensityBatch(xs, mat.NewDense(1, 2, nil), mat.NewDense(1, 2, []float64{1, 1}))
	require.ErrorAs(t, err, &dm)

	_, err = LogDensityBatch(xs, mat.NewDense(1, 3, nil), mat.NewDense(1, 2, []float64{1, 1}))
	require.ErrorAs(t, err, &dm)

	_, err = LogDensityBatch(xs, mat.NewDense(2, 3, nil), mat.NewDense(1, 3, []float64{1, 1, 1}))
	require.ErrorAs(t, err, &dm)
}
