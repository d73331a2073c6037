package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/mixture/gmm"
)

func collect(t *testing.T, ds gmm.Dataset) [][]float64 {
	t.Helper()
	var out [][]float64
	require.NoError(t, ds.Each(func(x []float64) error {
		out = append(out, append([]float64(nil), x...))
		return nil
	}))
	return out
}

func TestReadVectors(t *testing.T) {
	in := "# header\n1 2\n\n  -0.5\t3e2 \n"
	var got [][]float64
	err := ReadVectors(strings.NewReader(in), 0, func(x []float64) error {
		got = append(got, append([]float64(nil), x...))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {-0.5, 300}}, got)
}

func TestReadVectorsErrors(t *testing.T) {
	noop := func([]float64) error { return nil }

	err := ReadVectors(strings.NewReader("1 2\n3\n"), 0, noop)
	var dm *gmm.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Contains(t, err.Error(), "line 2")

	err = ReadVectors(strings.NewReader("1 2\n"), 3, noop)
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)

	err = ReadVectors(strings.NewReader("1 abc\n"), 0, noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 2")
}

func TestFileRoundTrip(t *testing.T) {
	data := gmm.Vectors{{0.1, -2}, {1e-300, 3.5}, {42, 0}}
	dir := t.TempDir()
	for _, name := range []string{"v.txt", "v.txt.zst", "v.txt.lz4"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, data))

		f := File{Path: path, Dim: 2}
		// replayable: two passes see the same data
		assert.Equal(t, [][]float64(data), collect(t, f), name)
		assert.Equal(t, [][]float64(data), collect(t, f), name)
	}
}

func TestFileMissing(t *testing.T) {
	err := File{Path: filepath.Join(t.TempDir(), "missing.txt")}.Each(func([]float64) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileTrainsModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.txt")
	require.NoError(t, os.WriteFile(path, []byte("-1\n1\n"), 0o644))

	cfg := gmm.DefaultConfig()
	cfg.NIter = 10
	m, err := gmm.New(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Fit(File{Path: path, Dim: 1}))
	assert.InDelta(t, 0.0, m.Means().At(0, 0), 1e-12)
	assert.InDelta(t, 1.0+cfg.MinCovar, m.Covars().At(0, 0), 1e-12)
}
