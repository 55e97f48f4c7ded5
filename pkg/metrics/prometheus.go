// Package metrics provides Prometheus metrics for match quality evaluation.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Mode label values.
const (
	ModeQuality    = "quality"
	ModeFreeForAll = "free_for_all"
)

// Manager manages all Prometheus metrics for the evaluator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	qualityBuckets   []float64
	registry         prometheus.Registerer

	evaluations      *prometheus.CounterVec
	evaluationErrors *prometheus.CounterVec
	qualityValue     *prometheus.HistogramVec
	latency          *prometheus.HistogramVec
	pairsEvaluated   prometheus.Counter

	batchWorkers prometheus.Gauge
	batchPending prometheus.Gauge
}

var (
	mu            sync.RWMutex
	globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

	// Custom registry to avoid default Go metrics.
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager and its registry. Options are applied on
// top of the custom registry, so WithPrometheusRegistry is ignored here.
func Init(opts ...Option) {
	reg := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(reg))
	m := NewManager(opts...)

	mu.Lock()
	customRegistry = reg
	globalManager = m
	mu.Unlock()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trueskill",
		subsystem:        "match",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500},
		qualityBuckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Total number of successful match quality evaluations",
	}, []string{"mode"})

	m.evaluationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_errors_total",
		Help:      "Total number of failed evaluations by failure kind",
	}, []string{"mode", "kind"})

	m.qualityValue = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quality_value",
		Help:      "Distribution of computed match qualities",
		Buckets:   m.qualityBuckets,
	}, []string{"mode"})

	m.latency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_milliseconds",
		Help:      "Evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"mode"})

	m.pairsEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_evaluated_total",
		Help:      "Total number of group pairs evaluated by free-for-all",
	})

	m.batchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_workers",
		Help:      "Number of running batch workers",
	})

	m.batchPending = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_pending",
		Help:      "Number of matches waiting for a batch worker",
	})
}

func manager() *Manager {
	mu.RLock()
	defer mu.RUnlock()
	return globalManager
}

// RecordEvaluation counts a successful evaluation and observes its quality.
func RecordEvaluation(mode string, quality float64) {
	m := manager()
	m.evaluations.WithLabelValues(mode).Inc()
	m.qualityValue.WithLabelValues(mode).Observe(quality)
}

// RecordEvaluationError counts a failed evaluation.
func RecordEvaluationError(mode, kind string) {
	manager().evaluationErrors.WithLabelValues(mode, kind).Inc()
}

// RecordEvaluationLatency records evaluation latency in milliseconds.
func RecordEvaluationLatency(mode string, latencyMs float64) {
	manager().latency.WithLabelValues(mode).Observe(latencyMs)
}

// RecordPairsEvaluated adds n to the pair counter.
func RecordPairsEvaluated(n int) {
	manager().pairsEvaluated.Add(float64(n))
}

// UpdateBatchWorkers sets the current worker count.
func UpdateBatchWorkers(count int) {
	manager().batchWorkers.Set(float64(count))
}

// UpdateBatchPending sets the number of queued matches.
func UpdateBatchPending(count int) {
	manager().batchPending.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return customRegistry
}

// Snapshot gathers the global registry and flattens counters and gauges into
// name -> value. Labelled series are summed per name; histograms report their
// sample count under name + "_count".
func Snapshot() (map[string]float64, error) {
	families, err := GetRegistry().Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	return flatten(families), nil
}

func flatten(families []*dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		name := mf.GetName()
		for _, metric := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[name] += metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[name] += metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[name+"_count"] += float64(metric.GetHistogram().GetSampleCount())
			default:
			}
		}
	}
	return out
}
