package gmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.NFeatures)
	assert.Equal(t, 1, cfg.NComponents)
	assert.Equal(t, 1e-3, cfg.Thresh)
	assert.Equal(t, 1e-3, cfg.MinCovar)
	assert.Equal(t, 1, cfg.NIter)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateReportsEveryField(t *testing.T) {
	cfg := Config{NFeatures: 0, NComponents: -1, Thresh: 0, MinCovar: -1, NIter: 0}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	for _, field := range []string{"n_features", "n_components", "n_iter", "thresh", "min_covar"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestNewInitialState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NFeatures = 3
	cfg.NComponents = 4
	m := mustNew(t, cfg)

	assert.Equal(t, 3, m.NFeatures())
	assert.Equal(t, 4, m.NComponents())
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, m.Weights())

	means, covars := m.Means(), m.Covars()
	for c := 0; c < 4; c++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, 0.0, means.At(c, j))
			assert.Equal(t, 1.0, covars.At(c, j))
		}
	}
	assert.Empty(t, m.LogProbs())
	assert.Equal(t, cfg, m.Config())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NIter = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewWithParamsShapeChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NFeatures = 2
	cfg.NComponents = 2

	_, err := NewWithParams(cfg, []float64{1}, [][]float64{{0, 0}, {0, 0}}, [][]float64{{1, 1}, {1, 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewWithParams(cfg, []float64{0.5, 0.5}, [][]float64{{0, 0}, {0}}, [][]float64{{1, 1}, {1, 1}})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)

	_, err = NewWithParams(cfg, []float64{0.5, 0.5}, [][]float64{{0, 0}}, [][]float64{{1, 1}, {1, 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewWithParams(cfg, []float64{0.5, 0.5}, [][]float64{{0, 0}, {0, 0}}, [][]float64{{1, 1}, {1, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewWithParamsRejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NComponents = 2
	means := [][]float64{{0}, {1}}
	covars := [][]float64{{1}, {1}}

	tests := []struct {
		name    string
		weights []float64
	}{
		{"sum below one", []float64{0.3, 0.3}},
		{"sum above one", []float64{0.7, 0.7}},
		{"negative", []float64{-0.5, 1.5}},
		{"nan", []float64{math.NaN(), 1}},
		{"inf", []float64{math.Inf(1), 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithParams(cfg, tt.weights, means, covars)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	m, err := NewWithParams(cfg, []float64{0.25, 0.75 + 1e-12}, means, covars)
	require.NoError(t, err)
	lp, err := m.Score([]float64{0})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(lp))
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	w := m.Weights()
	w[0] = 42
	means := m.Means()
	means.Set(0, 0, 42)

	assert.Equal(t, 1.0, m.Weights()[0])
	assert.Equal(t, 0.0, m.Means().At(0, 0))
}

func TestString(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	s := m.String()
	assert.Contains(t, s, "W: [1]")
	assert.Contains(t, s, "M:")
	assert.Contains(t, s, "C:")
}
