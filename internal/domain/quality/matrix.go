package quality

import (
	"math"

	"github.com/okian/trueskill/internal/domain/rating"
	"gonum.org/v1/gonum/mat"
)

// minGroups is the smallest number of rating groups a match can have.
const minGroups = 2

// ValidateWeights returns weights shaped like groups. A nil weights value
// defaults every rating to 1.
func ValidateWeights(groups [][]rating.Rating, weights [][]float64) ([][]float64, error) {
	if weights == nil {
		out := make([][]float64, len(groups))
		for i, g := range groups {
			out[i] = make([]float64, len(g))
			for k := range out[i] {
				out[i][k] = 1
			}
		}
		return out, nil
	}
	if len(weights) != len(groups) {
		return nil, kindf(ErrInvalidShape, "%d weight groups for %d rating groups", len(weights), len(groups))
	}
	for i := range groups {
		if len(weights[i]) != len(groups[i]) {
			return nil, kindf(ErrInvalidShape, "group %d has %d weights for %d ratings", i, len(weights[i]), len(groups[i]))
		}
		for k, w := range weights[i] {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, kindf(ErrInvalidShape, "weight [%d][%d] is not finite", i, k)
			}
		}
	}
	return weights, nil
}

func validateGroups(groups [][]rating.Rating) error {
	if len(groups) < minGroups {
		return kindf(ErrInvalidShape, "need at least %d rating groups, got %d", minGroups, len(groups))
	}
	for i, g := range groups {
		if len(g) == 0 {
			return kindf(ErrInvalidShape, "rating group %d is empty", i)
		}
	}
	return nil
}

// DesignMatrix builds the (G-1)×N matrix whose row r is the weighted score of
// group r minus the weighted score of group r+1. Columns follow the order of
// the flattened groups.
func DesignMatrix(groups [][]rating.Rating, weights [][]float64) (*mat.Dense, error) {
	if err := validateGroups(groups); err != nil {
		return nil, err
	}
	w, err := ValidateWeights(groups, weights)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, g := range groups {
		n += len(g)
	}

	a := mat.NewDense(len(groups)-1, n, nil)
	offset := 0
	for r := 0; r < len(groups)-1; r++ {
		next := offset + len(groups[r])
		for k, wk := range w[r] {
			a.Set(r, offset+k, wk)
		}
		for k, wk := range w[r+1] {
			a.Set(r, next+k, -wk)
		}
		offset = next
	}
	return a, nil
}

func flatten(groups [][]rating.Rating) []rating.Rating {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]rating.Rating, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
