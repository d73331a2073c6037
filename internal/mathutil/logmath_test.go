package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumLog(t *testing.T) {
	got := SumLog(Vec{2, 3})
	assert.InDelta(t, math.Log(6), got, 1e-12)
	assert.Equal(t, 0.0, SumLog(nil))
}

func TestMahalanobis(t *testing.T) {
	// (1-0)²/1 + (4-2)²/4 = 2
	got := Mahalanobis(Vec{1, 4}, Vec{0, 2}, Vec{1, 4})
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestMahalanobisAtMean(t *testing.T) {
	x := Vec{0.5, -1.5, 3}
	assert.Equal(t, 0.0, Mahalanobis(x, x, Vec{1, 2, 3}))
}
