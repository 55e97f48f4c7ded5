// Package service wires the quality evaluator to logging, metrics, tracing
// and the batch pool.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/trueskill/internal/batch"
	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/internal/domain/quality"
	"github.com/okian/trueskill/internal/domain/rating"
	"github.com/okian/trueskill/pkg/logger"
	"github.com/okian/trueskill/pkg/metrics"
)

const tracerName = "github.com/okian/trueskill/internal/app"

// Stats summarizes evaluations performed by a Service.
type Stats struct {
	Evaluations    int64
	Failures       int64
	PairsEvaluated int64
	MeanQuality    float64
}

// Service evaluates match quality.
type Service struct {
	beta         float64
	concurrency  int
	batchWorkers int
	queueSize    int

	logger logger.Logger
	tracer trace.Tracer

	mu         sync.Mutex
	stats      Stats
	qualitySum float64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBeta sets the beta used when a match does not carry its own.
func WithBeta(beta float64) Option {
	return func(s *Service) {
		if beta > 0 {
			s.beta = beta
		}
	}
}

// WithConcurrency caps the free-for-all pairwise fan-out.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithBatchWorkers sets the number of workers used by EvaluateAll.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithQueueSize bounds the EvaluateAll job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		beta: rating.DefaultBeta,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Beta returns the default beta.
func (s *Service) Beta() float64 { return s.beta }

// Quality evaluates groups jointly with the service beta.
func (s *Service) Quality(ctx context.Context, groups [][]rating.Rating, weights [][]float64) (float64, error) {
	return s.evaluate(ctx, model.ModeQuality, groups, weights, s.beta)
}

// FreeForAll averages the quality of every pair of groups with the service beta.
func (s *Service) FreeForAll(ctx context.Context, groups [][]rating.Rating) (float64, error) {
	return s.evaluate(ctx, model.ModeFreeForAll, groups, nil, s.beta)
}

// Evaluate validates m and evaluates it in its mode. A zero match beta falls
// back to the service beta.
func (s *Service) Evaluate(ctx context.Context, m model.Match) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Evaluate",
		trace.WithAttributes(
			attribute.String("match.id", m.ID),
			attribute.String("match.name", m.Name),
		),
	)
	defer span.End()

	mode := m.Mode.OrDefault()
	q, err := s.evaluateMatch(ctx, m, mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("match %s: %w", m.Label(), err)
	}
	return q, nil
}

func (s *Service) evaluateMatch(ctx context.Context, m model.Match, mode model.Mode) (float64, error) {
	if err := m.Validate(); err != nil {
		s.fail(ctx, mode, err)
		return 0, err
	}
	groups, weights := m.RatingGroups()
	if mode == model.ModeFreeForAll && weights != nil {
		s.fail(ctx, mode, ErrWeightedFreeForAll)
		return 0, ErrWeightedFreeForAll
	}
	beta := m.Beta
	if beta == 0 {
		beta = s.beta
	}
	return s.evaluate(ctx, mode, groups, weights, beta)
}

// EvaluateAll evaluates matches on the batch pool. Results keep input order.
func (s *Service) EvaluateAll(ctx context.Context, matches []model.Match) ([]model.Result, error) {
	pool := batch.NewPool(s,
		batch.WithWorkers(s.batchWorkers),
		batch.WithQueueSize(s.queueSize),
		batch.WithLogger(s.logger.Named("batch")),
	)
	start := time.Now()
	results, err := pool.Run(ctx, matches)
	s.logger.Info(ctx, "batch finished",
		logger.Int("matches", len(matches)),
		logger.Int("workers", pool.Workers()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results, err
}

// GetStats returns a copy of the running totals.
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	if st.Evaluations > 0 {
		st.MeanQuality = s.qualitySum / float64(st.Evaluations)
	}
	return st
}

func (s *Service) evaluate(ctx context.Context, mode model.Mode, groups [][]rating.Rating, weights [][]float64, beta float64) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "Service."+spanName(mode),
		trace.WithAttributes(
			attribute.String("quality.mode", string(mode)),
			attribute.Int("quality.groups", len(groups)),
			attribute.Float64("quality.beta", beta),
		),
	)
	defer span.End()

	start := time.Now()
	var (
		q   float64
		err error
	)
	switch mode {
	case model.ModeFreeForAll:
		q, err = quality.FreeForAll(ctx, groups, beta, quality.WithConcurrency(s.concurrency))
	default:
		q, err = quality.Quality(groups, weights, beta)
	}
	elapsed := time.Since(start)
	metrics.RecordEvaluationLatency(string(mode), float64(elapsed.Microseconds())/1000)

	var pe *quality.PairError
	if mode == model.ModeFreeForAll && (err == nil || errors.As(err, &pe)) {
		s.addPairs(len(quality.Pairs(len(groups))))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.fail(ctx, mode, err)
		return 0, err
	}

	span.SetAttributes(attribute.Float64("quality.value", q))
	metrics.RecordEvaluation(string(mode), q)
	s.mu.Lock()
	s.stats.Evaluations++
	s.qualitySum += q
	s.mu.Unlock()

	s.logger.Debug(ctx, "quality evaluated",
		logger.String("mode", string(mode)),
		logger.Int("groups", len(groups)),
		logger.Float64("quality", q),
		logger.Duration("elapsed", elapsed),
	)
	return q, nil
}

func (s *Service) addPairs(n int) {
	metrics.RecordPairsEvaluated(n)
	s.mu.Lock()
	s.stats.PairsEvaluated += int64(n)
	s.mu.Unlock()
}

func (s *Service) fail(ctx context.Context, mode model.Mode, err error) {
	kind := ErrorKind(err)
	metrics.RecordEvaluationError(string(mode), kind)
	s.mu.Lock()
	s.stats.Failures++
	s.mu.Unlock()
	s.logger.Warn(ctx, "quality evaluation failed",
		logger.String("mode", string(mode)),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

func spanName(mode model.Mode) string {
	if mode == model.ModeFreeForAll {
		return "FreeForAll"
	}
	return "Quality"
}

// ErrorKind maps an evaluation error to a short metric label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, model.ErrInvalidMatch):
		return "invalid_match"
	case errors.Is(err, ErrWeightedFreeForAll):
		return "unsupported"
	case errors.Is(err, quality.ErrInvalidShape):
		return "invalid_shape"
	case errors.Is(err, quality.ErrInvalidBeta):
		return "invalid_beta"
	case errors.Is(err, quality.ErrSingular):
		return "singular"
	case errors.Is(err, quality.ErrNonFinite):
		return "non_finite"
	default:
		return "other"
	}
}
