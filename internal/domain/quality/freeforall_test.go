package quality_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/trueskill/internal/domain/quality"
	"github.com/okian/trueskill/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func singletons(rs ...rating.Rating) [][]rating.Rating {
	out := make([][]rating.Rating, len(rs))
	for i, r := range rs {
		out[i] = team(r)
	}
	return out
}

func TestPairs(t *testing.T) {
	Convey("Given four groups", t, func() {
		Convey("Then pairs are listed in lexicographic order", func() {
			So(quality.Pairs(4), ShouldResemble, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
		})
	})

	Convey("Given fewer than two groups", t, func() {
		Convey("Then there are no pairs", func() {
			So(quality.Pairs(1), ShouldBeEmpty)
			So(quality.Pairs(0), ShouldBeEmpty)
		})
	})
}

func TestFreeForAll(t *testing.T) {
	ctx := context.Background()

	Convey("Given identical singleton groups", t, func() {
		groups := singletons(rating.New(25, 5), rating.New(25, 5), rating.New(25, 5), rating.New(25, 5), rating.New(25, 5))

		Convey("Then the mean equals any single pair", func() {
			ffa, err := quality.FreeForAll(ctx, groups, beta)
			So(err, ShouldBeNil)
			pair, err := quality.Quality1vs1(groups[0], groups[1], nil, beta)
			So(err, ShouldBeNil)
			So(ffa, ShouldAlmostEqual, pair, 1e-12)
		})
	})

	Convey("Given twenty varied groups", t, func() {
		sigmas := []float64{5.1, 5.0, 6.7, 6.3, 7.0, 4.2}
		rs := make([]rating.Rating, 20)
		for i := range rs {
			rs[i] = rating.New(20+float64(i)/2, sigmas[i%len(sigmas)])
		}
		groups := singletons(rs...)

		Convey("Then the result does not depend on concurrency", func() {
			serial, err := quality.FreeForAll(ctx, groups, beta, quality.WithConcurrency(1))
			So(err, ShouldBeNil)
			for _, n := range []int{2, 3, 8, 64} {
				parallel, err := quality.FreeForAll(ctx, groups, beta, quality.WithConcurrency(n))
				So(err, ShouldBeNil)
				So(parallel, ShouldEqual, serial)
			}
		})

		Convey("And it is the mean of the pairwise qualities", func() {
			pqs, err := quality.PairQualities(ctx, groups, beta)
			So(err, ShouldBeNil)
			So(len(pqs), ShouldEqual, 190)
			var sum float64
			for _, pq := range pqs {
				So(pq.Err, ShouldBeNil)
				So(pq.I, ShouldBeLessThan, pq.J)
				sum += pq.Quality
			}
			ffa, err := quality.FreeForAll(ctx, groups, beta)
			So(err, ShouldBeNil)
			So(ffa, ShouldAlmostEqual, sum/190, 1e-12)
		})
	})

	Convey("Given two groups", t, func() {
		a, b := team(rating.New(25, 5)), team(rating.New(31, 4))

		Convey("Then free-for-all equals the single pair", func() {
			ffa, err := quality.FreeForAll(ctx, [][]rating.Rating{a, b}, beta)
			So(err, ShouldBeNil)
			pair, _ := quality.Quality1vs1(a, b, nil, beta)
			So(ffa, ShouldEqual, pair)
		})
	})

	Convey("Given fewer than two groups", t, func() {
		Convey("Then free-for-all fails with a shape error", func() {
			_, err := quality.FreeForAll(ctx, nil, beta)
			So(errors.Is(err, quality.ErrInvalidShape), ShouldBeTrue)
			_, err = quality.FreeForAll(ctx, singletons(rating.Default()), beta)
			So(errors.Is(err, quality.ErrInvalidShape), ShouldBeTrue)
		})
	})

	Convey("Given an invalid beta", t, func() {
		Convey("Then free-for-all fails before evaluating pairs", func() {
			_, err := quality.FreeForAll(ctx, singletons(rating.Default(), rating.Default()), 0)
			So(errors.Is(err, quality.ErrInvalidBeta), ShouldBeTrue)
		})
	})

	Convey("Given one degenerate group among four", t, func() {
		groups := singletons(rating.New(25, 5), rating.New(26, 5), rating.New(25, 0), rating.New(24, 5))

		Convey("When collecting pair qualities", func() {
			pqs, err := quality.PairQualities(ctx, groups, beta, quality.WithConcurrency(4))
			So(err, ShouldBeNil)

			Convey("Then only pairs touching it fail", func() {
				for _, pq := range pqs {
					if pq.I == 2 || pq.J == 2 {
						So(errors.Is(pq.Err, quality.ErrNonFinite), ShouldBeTrue)
					} else {
						So(pq.Err, ShouldBeNil)
						So(pq.Quality, ShouldBeGreaterThan, 0.0)
					}
				}
			})
		})

		Convey("When aggregating", func() {
			_, err := quality.FreeForAll(ctx, groups, beta)

			Convey("Then the error names the first failing pair", func() {
				So(errors.Is(err, quality.ErrNonFinite), ShouldBeTrue)
				var pe *quality.PairError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.I, ShouldEqual, 0)
				So(pe.J, ShouldEqual, 2)
				So(err.Error(), ShouldContainSubstring, "pair (1, 2)")
				So(err.Error(), ShouldContainSubstring, "pair (2, 3)")
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		groups := singletons(rating.Default(), rating.Default(), rating.Default())

		Convey("Then evaluation stops with the context error", func() {
			_, err := quality.FreeForAll(cctx, groups, beta)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			_, err = quality.FreeForAll(cctx, groups, beta, quality.WithConcurrency(1))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
