package gmm

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed sequence of normal draws.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) NormFloat64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// twoClusters draws n 1-D samples from each of N(-5, 1) and N(5, 1).
func twoClusters(n int, seed uint64) Vectors {
	rng := rand.New(rand.NewPCG(seed, 0))
	data := make(Vectors, 0, 2*n)
	for i := 0; i < n; i++ {
		data = append(data, []float64{-5 + rng.NormFloat64()})
		data = append(data, []float64{5 + rng.NormFloat64()})
	}
	return data
}

func mustNew(t testing.TB, cfg Config, opts ...Option) *Model {
	t.Helper()
	m, err := New(cfg, opts...)
	require.NoError(t, err)
	return m
}
