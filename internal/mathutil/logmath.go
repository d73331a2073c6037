package mathutil

import "math"

// Log2Pi is log(2π).
var Log2Pi = math.Log(2 * math.Pi)

// SumLog returns Σ log(v[i]).
func SumLog(v Vec) float64 {
	s := 0.0
	for _, x := range v {
		s += math.Log(x)
	}
	return s
}

// Mahalanobis computes Σ (x[i]-mean[i])² / variance[i] for a diagonal covariance.
func Mahalanobis(x, mean, variance Vec) float64 {
	maha := 0.0
	for i, xi := range x {
		diff := xi - mean[i]
		maha += diff * diff / variance[i]
	}
	return maha
}
