// Package batch evaluates many matches on a fixed pool of workers.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/pkg/logger"
	"github.com/okian/trueskill/pkg/metrics"
)

const defaultQueueSize = 1024

// Evaluator computes the quality of a single match.
type Evaluator interface {
	Evaluate(ctx context.Context, m model.Match) (float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, m model.Match) (float64, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, m model.Match) (float64, error) {
	return f(ctx, m)
}

type outcome struct {
	index  int
	result model.Result
}

// worker drains a queue, evaluating each job.
type worker struct {
	queue  *Queue
	eval   Evaluator
	logger logger.Logger
}

// Run processes jobs until the queue is drained or ctx ends.
func (w *worker) Run(ctx context.Context, out chan<- outcome) {
	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok || ctx.Err() != nil {
				return
			}
			metrics.UpdateBatchPending(w.queue.Len())
			out <- outcome{index: job.Index, result: w.process(ctx, job)}
		}
	}
}

func (w *worker) process(ctx context.Context, job Job) model.Result {
	m := job.Match
	start := time.Now()
	q, err := w.eval.Evaluate(ctx, m)
	res := model.Result{MatchID: m.ID, Name: m.Label(), Mode: m.Mode.OrDefault(), Quality: q, Err: err}

	if err != nil {
		w.logger.Warn(ctx, "match evaluation failed",
			logger.String("match", res.Name),
			logger.Int("index", job.Index),
			logger.Error(err),
		)
		return res
	}
	w.logger.Debug(ctx, "match evaluated",
		logger.String("match", res.Name),
		logger.Float64("quality", q),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res
}

// Pool runs a fresh set of workers for every Run call.
type Pool struct {
	eval      Evaluator
	workers   int
	queueSize int
	logger    logger.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the worker count; n < 1 keeps the default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize bounds the number of queued matches.
func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithLogger sets the logger used by the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool evaluating matches with eval.
func NewPool(eval Evaluator, opts ...Option) *Pool {
	p := &Pool{
		eval:      eval,
		workers:   runtime.NumCPU(),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("batch")
	}
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Run evaluates every match and returns results in input order. Per-match
// failures are reported in Result.Err. If ctx ends early the returned error
// wraps ctx.Err() and unevaluated matches carry it as their Err.
func (p *Pool) Run(ctx context.Context, matches []model.Match) ([]model.Result, error) {
	results := make([]model.Result, len(matches))
	if len(matches) == 0 {
		return results, nil
	}

	n := min(p.workers, len(matches))
	q := NewQueue(p.queueSize)
	out := make(chan outcome, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w := &worker{
			queue:  q,
			eval:   p.eval,
			logger: p.logger.Named("worker-" + strconv.Itoa(i)),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx, out)
		}()
	}
	metrics.UpdateBatchWorkers(n)
	p.logger.Debug(ctx, "batch started", logger.Int("matches", len(matches)), logger.Int("workers", n))

	go func() {
		defer func() { _ = q.Close() }()
		for i, m := range matches {
			if err := q.Enqueue(ctx, Job{Index: i, Match: m}); err != nil {
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	done := make([]bool, len(matches))
	for o := range out {
		results[o.index] = o.result
		done[o.index] = true
	}
	metrics.UpdateBatchWorkers(0)
	metrics.UpdateBatchPending(0)

	missing := 0
	for i, m := range matches {
		if !done[i] {
			missing++
			results[i] = model.Result{MatchID: m.ID, Name: m.Label(), Mode: m.Mode.OrDefault(), Err: ctx.Err()}
		}
	}
	if missing > 0 {
		p.logger.Warn(ctx, "batch cancelled", logger.Int("unevaluated", missing), logger.Error(ctx.Err()))
		return results, fmt.Errorf("batch cancelled with %d matches unevaluated: %w", missing, ctx.Err())
	}
	return results, nil
}
