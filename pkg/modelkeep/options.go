package modelkeep

import (
	"log/slog"

	"github.com/modelkeep/modelkeep/pkg/modelkeep/observability"
)

// managerConfig holds configuration shared by all Manager instances.
type managerConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultManagerConfig returns the default manager configuration.
func defaultManagerConfig() managerConfig {
	return managerConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Manager.
type Option func(*managerConfig)

// WithLogger sets a structured logger for checkpoint operations.
// Default: nil (no logging).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	mgr := modelkeep.New[Model](st, "checkpoints", codec, modelkeep.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics collection.
// Default: disabled (no-op recorder).
//
// Configure the global meter provider before enabling.
func WithMetrics(enabled bool) Option {
	return func(c *managerConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry span creation for checkpoint
// operations. Default: disabled (no-op spans).
//
// Configure the global tracer provider before enabling.
func WithTracing(enabled bool) Option {
	return func(c *managerConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
// Useful for testing or for routing metrics outside OTel.
func WithMetricsRecorder(recorder observability.MetricsRecorder) Option {
	return func(c *managerConfig) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}
