package gmm

import (
	"math/rand/v2"
	"testing"
)

func benchModel(b *testing.B, k, dim int) *Model {
	cfg := DefaultConfig()
	cfg.NFeatures = dim
	m := mustNew(b, cfg, WithRand(rand.New(rand.NewPCG(42, 0))))
	if err := m.Mixup(k - 1); err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkScore_39x8(b *testing.B) {
	m := benchModel(b, 8, 39)
	rng := rand.New(rand.NewPCG(1, 0))
	x := make([]float64, 39)
	for i := range x {
		x[i] = rng.NormFloat64()
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := m.Score(x); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScoreBatch_300x39x8(b *testing.B) {
	m := benchModel(b, 8, 39)
	xs := randomDense(rand.New(rand.NewPCG(1, 0)), 300, 39, func(v float64) float64 { return v })

	b.ResetTimer()
	for b.Loop() {
		if _, err := m.ScoreBatch(xs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFit_1000x13x4(b *testing.B) {
	data := twoClustersND(1000, 13, 3)
	m := benchModel(b, 4, 13)

	b.ResetTimer()
	for b.Loop() {
		if err := m.Fit(data); err != nil {
			b.Fatal(err)
		}
	}
}
