package quality

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/okian/trueskill/internal/domain/rating"
	"golang.org/x/sync/errgroup"
)

// PairQuality is the two-group quality of groups I and J (I < J).
// Err is set when that pair could not be evaluated.
type PairQuality struct {
	I, J    int
	Quality float64
	Err     error
}

// Pairs lists every unordered pair of indices below n in lexicographic order.
func Pairs(n int) [][2]int {
	if n < minGroups {
		return nil
	}
	out := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// PairQualities evaluates every pair of groups with default weights.
// Results are in Pairs order. A failing pair does not stop its siblings; its
// error is recorded on the returned PairQuality.
func PairQualities(ctx context.Context, groups [][]rating.Rating, beta float64, opts ...Option) ([]PairQuality, error) {
	if err := validateGroups(groups); err != nil {
		return nil, err
	}
	if !(beta > 0) || math.IsInf(beta, 1) {
		return nil, kindf(ErrInvalidBeta, "got %g", beta)
	}
	o := newOptions(opts)
	pairs := Pairs(len(groups))
	out := make([]PairQuality, len(pairs))

	evaluate := func(idx int) {
		p := pairs[idx]
		q, err := Quality1vs1(groups[p[0]], groups[p[1]], nil, beta)
		out[idx] = PairQuality{I: p[0], J: p[1], Quality: q, Err: err}
	}

	if o.concurrency == 1 || len(pairs) == 1 {
		for idx := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pairwise evaluation cancelled: %w", err)
			}
			evaluate(idx)
		}
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for idx := range pairs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() == nil {
				evaluate(idx)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pairwise evaluation cancelled: %w", err)
	}
	return out, nil
}

// FreeForAll returns the mean two-group quality over every pair of groups.
// If any pair fails the joined *PairError values are returned in pair order.
func FreeForAll(ctx context.Context, groups [][]rating.Rating, beta float64, opts ...Option) (float64, error) {
	results, err := PairQualities(ctx, groups, beta, opts...)
	if err != nil {
		return 0, err
	}

	var errs []error
	qualities := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, &PairError{I: r.I, J: r.J, Err: r.Err})
			continue
		}
		qualities = append(qualities, r.Quality)
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return compensatedSum(qualities) / float64(len(qualities)), nil
}

// compensatedSum is Neumaier's variant of Kahan summation. Inputs are summed in
// slice order so the result does not depend on evaluation scheduling.
func compensatedSum(xs []float64) float64 {
	var sum, c float64
	for _, x := range xs {
		t := sum + x
		if math.Abs(sum) >= math.Abs(x) {
			c += (sum - t) + x
		} else {
			c += (x - t) + sum
		}
		sum = t
	}
	return sum + c
}
