// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped with this package's sentinels.
package config

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/okian/trueskill/internal/domain/rating"
)

const defaultBatchQueueSize = 1024

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Beta is the performance variance scale used when a match does not set one.
	Beta float64 `koanf:"beta" validate:"gt=0"`

	// DefaultMu and DefaultSigma fill in player entries that leave mu or sigma empty.
	DefaultMu    float64 `koanf:"default_mu"`
	DefaultSigma float64 `koanf:"default_sigma" validate:"gt=0"`

	// Concurrency caps the pairwise fan-out of free-for-all; 0 means GOMAXPROCS.
	Concurrency int `koanf:"concurrency" validate:"min=0"`

	// BatchWorkers and BatchQueueSize size the batch evaluation pool.
	BatchWorkers   int `koanf:"batch_workers" validate:"min=0"`
	BatchQueueSize int `koanf:"batch_queue_size" validate:"min=0"`

	MetricsNamespace string `koanf:"metrics_namespace" validate:"required"`
	MetricsSubsystem string `koanf:"metrics_subsystem" validate:"required"`

	// Histogram buckets; empty keeps the metrics package defaults.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets" validate:"omitempty,dive,gt=0"`
	MetricsQualityBuckets []float64 `koanf:"metrics_quality_buckets" validate:"omitempty,dive,gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Beta:             rating.DefaultBeta,
		DefaultMu:        rating.DefaultMu,
		DefaultSigma:     rating.DefaultSigma,
		Concurrency:      0,
		BatchWorkers:     runtime.NumCPU(),
		BatchQueueSize:   defaultBatchQueueSize,
		MetricsNamespace: "trueskill",
		MetricsSubsystem: "match",
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !increasing(c.MetricsLatencyBuckets) {
		return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
	}
	if !increasing(c.MetricsQualityBuckets) {
		return fmt.Errorf("%w: metrics_quality_buckets must be strictly increasing", ErrInvalidConfig)
	}
	return nil
}

// Prometheus panics on unsorted histogram buckets.
func increasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}
