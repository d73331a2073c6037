package gmm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/mixture/internal/mathutil"
)

// LogDensity computes log N(x; mean, diag(covar)):
//
//	-0.5*(d*log(2π) + Σ log covar_i) - 0.5*Σ (x_i-mean_i)²/covar_i
//
// where d = len(mean).
func LogDensity(x, mean, covar []float64) (float64, error) {
	d := len(mean)
	if len(x) != d {
		return 0, &ErrDimensionMismatch{Expected: d, Actual: len(x)}
	}
	if len(covar) != d {
		return 0, &ErrDimensionMismatch{Expected: d, Actual: len(covar)}
	}
	return logDensity(x, mean, covar), nil
}

func logDensity(x, mean, covar []float64) float64 {
	d := float64(len(mean))
	return -0.5*(d*mathutil.Log2Pi+mathutil.SumLog(covar)) - 0.5*mathutil.Mahalanobis(x, mean, covar)
}

// LogDensityBatch computes the per-component log-density of s samples under
// k diagonal Gaussians. xs is s x d, means and covars are k x d; the result
// is s x k, indexed [sample][component]. No normalization across components
// is applied.
//
// Math:
//
//	maha(x,μ,σ²) = Σ x²/σ² - 2·Σ x·μ/σ² + Σ μ²/σ²
//	term1 = X² · (1/σ²)^T      (s×d)(d×k) → (s×k)
//	term2 = X  · (μ/σ²)^T      (s×d)(d×k) → (s×k)
//	lp[t,c] = -0.5*term1[t,c] + term2[t,c] + bias[c]
func LogDensityBatch(xs, means, covars mat.Matrix) (*mat.Dense, error) {
	s, d := xs.Dims()
	k, md := means.Dims()
	if md != d {
		return nil, &ErrDimensionMismatch{Expected: md, Actual: d}
	}
	if ck, cd := covars.Dims(); cd != d {
		return nil, &ErrDimensionMismatch{Expected: d, Actual: cd}
	} else if ck != k {
		return nil, &ErrDimensionMismatch{Expected: k, Actual: ck}
	}

	invVar := mat.NewDense(k, d, nil)
	meanInvVar := mat.NewDense(k, d, nil)
	bias := make([]float64, k)
	for c := 0; c < k; c++ {
		logDet := 0.0
		quad := 0.0
		for j := 0; j < d; j++ {
			v := covars.At(c, j)
			mu := means.At(c, j)
			iv := 1.0 / v
			invVar.Set(c, j, iv)
			meanInvVar.Set(c, j, mu*iv)
			logDet += math.Log(v)
			quad += mu * mu * iv
		}
		bias[c] = -0.5*(float64(d)*mathutil.Log2Pi+logDet) - 0.5*quad
	}

	xsq := mat.NewDense(s, d, nil)
	xsq.MulElem(xs, xs)

	var term1, term2 mat.Dense
	term1.Mul(xsq, invVar.T())
	term2.Mul(xs, meanInvVar.T())

	out := mat.NewDense(s, k, nil)
	for t := 0; t < s; t++ {
		for c := 0; c < k; c++ {
			out.Set(t, c, -0.5*term1.At(t, c)+term2.At(t, c)+bias[c])
		}
	}
	return out, nil
}
