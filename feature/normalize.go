package feature

import (
	"math"

	"github.com/ieee0824/mixture/gmm"
)

// Normalizer standardizes every feature dimension to zero mean and unit
// variance using statistics gathered over a whole dataset.
type Normalizer struct {
	Mean []float64
	Std  []float64
}

// FitNormalizer computes per-dimension mean and standard deviation in one
// streaming pass (Welford's algorithm). Dimensions with zero variance get a
// standard deviation of 1 so they pass through centered.
func FitNormalizer(ds gmm.Dataset) (*Normalizer, error) {
	var (
		n    int
		mean []float64
		m2   []float64
	)
	err := ds.Each(func(x []float64) error {
		if mean == nil {
			mean = make([]float64, len(x))
			m2 = make([]float64, len(x))
		}
		if len(x) != len(mean) {
			return &gmm.ErrDimensionMismatch{Expected: len(mean), Actual: len(x)}
		}
		n++
		for d, v := range x {
			delta := v - mean[d]
			mean[d] += delta / float64(n)
			m2[d] += delta * (v - mean[d])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gmm.ErrEmptyDataset
	}

	std := make([]float64, len(mean))
	for d := range std {
		s := math.Sqrt(m2[d] / float64(n))
		if s == 0 {
			s = 1
		}
		std[d] = s
	}
	return &Normalizer{Mean: mean, Std: std}, nil
}

// Apply writes the normalized x into dst and returns dst. dst may alias x;
// a nil dst is allocated.
func (nz *Normalizer) Apply(dst, x []float64) ([]float64, error) {
	if len(x) != len(nz.Mean) {
		return nil, &gmm.ErrDimensionMismatch{Expected: len(nz.Mean), Actual: len(x)}
	}
	if dst == nil {
		dst = make([]float64, len(x))
	}
	for d, v := range x {
		dst[d] = (v - nz.Mean[d]) / nz.Std[d]
	}
	return dst, nil
}

// Dataset wraps ds so that every vector is normalized on the fly.
func (nz *Normalizer) Dataset(ds gmm.Dataset) gmm.Dataset {
	return normalized{nz: nz, ds: ds}
}

type normalized struct {
	nz *Normalizer
	ds gmm.Dataset
}

func (n normalized) Each(fn func(x []float64) error) error {
	buf := make([]float64, len(n.nz.Mean))
	return n.ds.Each(func(x []float64) error {
		out, err := n.nz.Apply(buf, x)
		if err != nil {
			return err
		}
		return fn(out)
	})
}
