// Package quality computes TrueSkill match quality: the probability that a
// contest between ordered rating groups ends in a draw.
//
// For groups with flattened means μ, diagonal skill covariance Σ, design
// matrix A and performance width β the quality is
//
//	exp(-½ (Aμ)ᵗ M⁻¹ (Aμ)) · sqrt(det(β²AAᵗ) / det(M)),  M = β²AAᵗ + AΣAᵗ
//
// All functions are pure and safe for concurrent use.
package quality

import (
	"math"

	"github.com/okian/trueskill/internal/domain/rating"
	"gonum.org/v1/gonum/mat"
)

// Quality returns the draw probability of the ordered groups, in (0, 1].
// A nil weights value weights every rating by 1.
func Quality(groups [][]rating.Rating, weights [][]float64, beta float64) (float64, error) {
	logQ, err := LogQuality(groups, weights, beta)
	if err != nil {
		return 0, err
	}
	q := math.Exp(logQ)
	if q == 0 {
		return 0, kindf(ErrNonFinite, "quality underflows float64 (log quality %g)", logQ)
	}
	return q, nil
}

// Quality1vs1 is Quality for exactly two groups.
func Quality1vs1(a, b []rating.Rating, weights [][]float64, beta float64) (float64, error) {
	return Quality([][]rating.Rating{a, b}, weights, beta)
}

// LogQuality returns the natural logarithm of Quality. It stays finite for
// matches so unbalanced that Quality itself would underflow.
func LogQuality(groups [][]rating.Rating, weights [][]float64, beta float64) (float64, error) {
	if !(beta > 0) || math.IsInf(beta, 1) {
		return 0, kindf(ErrInvalidBeta, "got %g", beta)
	}
	a, err := DesignMatrix(groups, weights)
	if err != nil {
		return 0, err
	}

	ratings := flatten(groups)
	n := len(ratings)
	means := make([]float64, n)
	variances := make([]float64, n)
	for i, r := range ratings {
		mu, v := r.Mean(), r.Variance()
		if !isFinite(mu) || !isFinite(v) {
			return 0, kindf(ErrNonFinite, "rating %d has mean %g and variance %g", i, mu, v)
		}
		means[i] = mu
		variances[i] = v
	}
	mean := mat.NewVecDense(n, means)
	sigma := mat.NewDiagDense(n, variances)

	var covPerf mat.Dense
	covPerf.Mul(a, a.T())
	covPerf.Scale(beta*beta, &covPerf)

	var aSigma, covSkill mat.Dense
	aSigma.Mul(a, sigma)
	covSkill.Mul(&aSigma, a.T())

	var middle mat.Dense
	middle.Add(&covPerf, &covSkill)

	var inv mat.Dense
	if err := inv.Inverse(&middle); err != nil {
		rows, _ := middle.Dims()
		return 0, kindf(ErrSingular, "inverting %dx%d system: %v", rows, rows, err)
	}

	var diff, scaled mat.VecDense
	diff.MulVec(a, mean)
	scaled.MulVec(&inv, &diff)
	exponent := -0.5 * mat.Dot(&diff, &scaled)

	logPerf, signPerf := mat.LogDet(&covPerf)
	logMiddle, signMiddle := mat.LogDet(&middle)
	if signPerf <= 0 || signMiddle <= 0 {
		return 0, kindf(ErrSingular, "covariance is not positive definite")
	}

	logQ := exponent + 0.5*(logPerf-logMiddle)
	if !isFinite(logQ) {
		return 0, kindf(ErrNonFinite, "log quality evaluates to %g", logQ)
	}
	// M dominates β²AAᵗ, so anything above zero is rounding.
	if logQ > 0 {
		logQ = 0
	}
	return logQ, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
