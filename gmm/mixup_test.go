package gmm

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestMixupSingleComponent(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	require.NoError(t, m.Mixup(1))

	assert.Equal(t, 2, m.NComponents())
	assert.Equal(t, []float64{0.5, 0.5}, m.Weights())
	assert.Equal(t, 1.0, floats.Sum(m.Weights()))
}

func TestMixupDeterministicPerturbation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NFeatures = 2
	m, err := NewWithParams(cfg, []float64{1}, [][]float64{{1, 2}}, [][]float64{{4, 9}},
		WithRand(&seqRand{vals: []float64{1, -1, 0.5, 2}}))
	require.NoError(t, err)

	require.NoError(t, m.Mixup(1))

	means, covars := m.Means(), m.Covars()
	// first child: μ + 0.2*σ*z with z = (1, -1)
	assert.InDelta(t, 1.4, means.At(0, 0), 1e-12)
	assert.InDelta(t, 1.4, means.At(0, 1), 1e-12)
	// second child: z = (0.5, 2)
	assert.InDelta(t, 1.2, means.At(1, 0), 1e-12)
	assert.InDelta(t, 3.2, means.At(1, 1), 1e-12)
	// variances are inherited unchanged
	for c := 0; c < 2; c++ {
		assert.Equal(t, []float64{4, 9}, covars.RawRowView(c))
	}
}

func TestMixupSplitsFirstHeaviest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NComponents = 3
	m, err := NewWithParams(cfg,
		[]float64{0.25, 0.375, 0.375},
		[][]float64{{0}, {10}, {20}},
		[][]float64{{1}, {1}, {1}},
		WithRand(&seqRand{vals: []float64{0}}))
	require.NoError(t, err)

	require.NoError(t, m.Mixup(1))

	assert.Equal(t, []float64{0.25, 0.375, 0.1875, 0.1875}, m.Weights())
	means := m.Means()
	assert.Equal(t, []float64{0, 20, 10, 10}, means.RawMatrix().Data)
}

func TestMixupGrowsByExactlyK(t *testing.T) {
	for k := 0; k <= 6; k++ {
		cfg := DefaultConfig()
		cfg.NFeatures = 2
		m := mustNew(t, cfg, WithRand(rand.New(rand.NewPCG(uint64(k), 1))))
		require.NoError(t, m.Mixup(k))
		assert.Equal(t, 1+k, m.NComponents())
		assert.InDelta(t, 1.0, floats.Sum(m.Weights()), 1e-12)
		r, c := m.Means().Dims()
		assert.Equal(t, 1+k, r)
		assert.Equal(t, 2, c)
	}
}

func TestMixupNegative(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	assert.ErrorIs(t, m.Mixup(-1), ErrInvalidConfiguration)
	assert.Equal(t, 1, m.NComponents())
}

func TestSetRand(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	m.SetRand(&seqRand{vals: []float64{5}})
	require.NoError(t, m.Mixup(1))
	// 0 + 0.2*1*5
	assert.InDelta(t, 1.0, m.Means().At(0, 0), 1e-12)
}
