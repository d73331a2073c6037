package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/mixture"
)

var rounds = []mixture.Round{
	{Components: 1, LogProbs: []float64{-3.2, -2.9, -2.85}},
	{Components: 2, LogProbs: []float64{-2.7, -2.4, -2.39, -2.389}},
}

func TestNewLogLikelihoodPlot(t *testing.T) {
	p, err := NewLogLikelihoodPlot(rounds)
	require.NoError(t, err)
	assert.Equal(t, "iteration", p.X.Label.Text)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(p, &buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")
}

func TestNewLogLikelihoodPlotEmpty(t *testing.T) {
	_, err := NewLogLikelihoodPlot(nil)
	assert.ErrorIs(t, err, ErrNoRounds)
	_, err = NewLogLikelihoodPlot([]mixture.Round{{Components: 1}})
	assert.ErrorIs(t, err, ErrNoRounds)
}

func TestPlotLogLikelihood(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ll.png", "ll.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, PlotLogLikelihood(rounds, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	png, err := os.ReadFile(filepath.Join(dir, "ll.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestPlotLogLikelihoodBadPath(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, PlotLogLikelihood(rounds, filepath.Join(dir, "noext")))
	assert.Error(t, PlotLogLikelihood(rounds, filepath.Join(dir, "missing", "ll.png")))
}
