package train

import (
	"log/slog"

	"github.com/modelkeep/modelkeep/pkg/modelkeep/observability"
)

// loopConfig holds configuration for a training run.
type loopConfig struct {
	runID          string
	jobName        string
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultLoopConfig returns the default run configuration.
func defaultLoopConfig() loopConfig {
	return loopConfig{
		jobName: "training",
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// LoopOption configures a training run.
type LoopOption func(*loopConfig)

// WithRunID sets the run identifier used in logs and spans.
// Default: a fresh UUID per run.
func WithRunID(id string) LoopOption {
	return func(c *loopConfig) {
		c.runID = id
	}
}

// WithJobName sets the job name attached to run spans.
// Default: "training"
func WithJobName(name string) LoopOption {
	return func(c *loopConfig) {
		if name != "" {
			c.jobName = name
		}
	}
}

// WithLogger sets the structured logger for run and round events.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(c *loopConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for rounds and runs.
// Metrics use the globally registered meter provider.
//
// Example:
//
//	final, err := loop.Run(ctx, 100, 5, initial)
//	// with: train.NewLoop(mgr, fn, train.WithMetrics(true))
func WithMetrics(enabled bool) LoopOption {
	return func(c *loopConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for the run and each round.
// Spans use the globally registered tracer provider.
func WithTracing(enabled bool) LoopOption {
	return func(c *loopConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
// Nil recorders are ignored.
func WithMetricsRecorder(recorder observability.MetricsRecorder) LoopOption {
	return func(c *loopConfig) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}
