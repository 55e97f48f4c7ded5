package batch_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/okian/trueskill/internal/batch"
	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var errOdd = errors.New("odd match")

func matches(n int) []model.Match {
	out := make([]model.Match, n)
	for i := range out {
		out[i] = model.Match{ID: strconv.Itoa(i), Mode: model.ModeQuality}
	}
	return out
}

// indexEvaluator returns the match id as quality and fails odd ids.
func indexEvaluator() batch.EvaluatorFunc {
	return func(_ context.Context, m model.Match) (float64, error) {
		i, _ := strconv.Atoi(m.ID)
		if i%2 == 1 {
			return 0, errOdd
		}
		return float64(i), nil
	}
}

func TestPoolRun(t *testing.T) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		t.Fatal(err)
	}

	Convey("Given a pool of four workers", t, func() {
		pool := batch.NewPool(indexEvaluator(), batch.WithWorkers(4), batch.WithQueueSize(3))
		So(pool.Workers(), ShouldEqual, 4)

		Convey("When running many matches", func() {
			results, err := pool.Run(context.Background(), matches(50))

			Convey("Then results keep input order", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 50)
				for i, r := range results {
					So(r.MatchID, ShouldEqual, strconv.Itoa(i))
					So(r.Mode, ShouldEqual, model.ModeQuality)
				}
			})

			Convey("And failures stay attached to their match", func() {
				for i, r := range results {
					if i%2 == 1 {
						So(errors.Is(r.Err, errOdd), ShouldBeTrue)
					} else {
						So(r.Err, ShouldBeNil)
						So(r.Quality, ShouldEqual, float64(i))
					}
				}
			})
		})

		Convey("When running nothing", func() {
			results, err := pool.Run(context.Background(), nil)

			Convey("Then nothing is returned", func() {
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
			})
		})
	})

	Convey("Given more workers than matches", t, func() {
		var calls atomic.Int32
		eval := batch.EvaluatorFunc(func(_ context.Context, _ model.Match) (float64, error) {
			calls.Add(1)
			return 0.5, nil
		})
		pool := batch.NewPool(eval, batch.WithWorkers(16))

		Convey("Then every match is evaluated exactly once", func() {
			results, err := pool.Run(context.Background(), matches(3))
			So(err, ShouldBeNil)
			So(len(results), ShouldEqual, 3)
			So(calls.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given a context cancelled by the first evaluation", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		eval := batch.EvaluatorFunc(func(_ context.Context, _ model.Match) (float64, error) {
			cancel()
			return 1, nil
		})
		pool := batch.NewPool(eval, batch.WithWorkers(1), batch.WithQueueSize(1))

		Convey("Then the run stops and unevaluated matches carry the context error", func() {
			results, err := pool.Run(ctx, matches(100))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(len(results), ShouldEqual, 100)
			So(results[0].Err, ShouldBeNil)
			So(errors.Is(results[99].Err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestQueue(t *testing.T) {
	Convey("Given a queue of capacity two", t, func() {
		q := batch.NewQueue(2)
		ctx := context.Background()

		Convey("When filling it", func() {
			So(q.Enqueue(ctx, batch.Job{Index: 0}), ShouldBeNil)
			So(q.Enqueue(ctx, batch.Job{Index: 1}), ShouldBeNil)

			Convey("Then Len reports the backlog", func() {
				So(q.Len(), ShouldEqual, 2)
			})

			Convey("And a further enqueue waits for the context", func() {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				So(errors.Is(q.Enqueue(cctx, batch.Job{Index: 2}), context.Canceled), ShouldBeTrue)
			})

			Convey("And closing keeps queued jobs readable", func() {
				So(q.Close(), ShouldBeNil)
				So(q.Close(), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, batch.Job{}), batch.ErrQueueClosed), ShouldBeTrue)

				var got []int
				for job := range q.Dequeue() {
					got = append(got, job.Index)
				}
				So(got, ShouldResemble, []int{0, 1})
			})
		})
	})
}
