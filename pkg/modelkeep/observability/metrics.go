package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records checkpoint and training metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSave records a checkpoint save with its duration, payload size,
	// and error status.
	RecordSave(ctx context.Context, duration time.Duration, sizeBytes int64, err error)

	// RecordLoad records a checkpoint load with its duration and error status.
	RecordLoad(ctx context.Context, duration time.Duration, err error)

	// RecordPrune records the outcome of a prune pass.
	RecordPrune(ctx context.Context, deleted, failed int64)

	// RecordRoundExecution records a training round with its duration and
	// error status.
	RecordRoundExecution(ctx context.Context, duration time.Duration, err error)

	// RecordTrainingRun records a training run completion.
	RecordTrainingRun(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	saves          metric.Int64Counter
	saveErrors     metric.Int64Counter
	saveLatency    metric.Float64Histogram
	checkpointSize metric.Int64Histogram
	loads          metric.Int64Counter
	loadErrors     metric.Int64Counter
	loadLatency    metric.Float64Histogram
	pruneDeletions metric.Int64Counter
	pruneFailures  metric.Int64Counter
	rounds         metric.Int64Counter
	roundErrors    metric.Int64Counter
	roundLatency   metric.Float64Histogram
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("modelkeep")

	saves, err := meter.Int64Counter("modelkeep.checkpoint.saves",
		metric.WithDescription("Number of checkpoint saves"),
	)
	if err != nil {
		return nil, err
	}

	saveErrors, err := meter.Int64Counter("modelkeep.checkpoint.save_errors",
		metric.WithDescription("Number of failed checkpoint saves"),
	)
	if err != nil {
		return nil, err
	}

	saveLatency, err := meter.Float64Histogram("modelkeep.checkpoint.save_latency_ms",
		metric.WithDescription("Checkpoint save latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	checkpointSize, err := meter.Int64Histogram("modelkeep.checkpoint.size_bytes",
		metric.WithDescription("Checkpoint payload size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	loads, err := meter.Int64Counter("modelkeep.checkpoint.loads",
		metric.WithDescription("Number of checkpoint loads"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter("modelkeep.checkpoint.load_errors",
		metric.WithDescription("Number of failed checkpoint loads"),
	)
	if err != nil {
		return nil, err
	}

	loadLatency, err := meter.Float64Histogram("modelkeep.checkpoint.load_latency_ms",
		metric.WithDescription("Checkpoint load latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	pruneDeletions, err := meter.Int64Counter("modelkeep.checkpoint.prune_deletions",
		metric.WithDescription("Number of checkpoints deleted by pruning"),
	)
	if err != nil {
		return nil, err
	}

	pruneFailures, err := meter.Int64Counter("modelkeep.checkpoint.prune_failures",
		metric.WithDescription("Number of tolerated checkpoint delete failures"),
	)
	if err != nil {
		return nil, err
	}

	rounds, err := meter.Int64Counter("modelkeep.train.rounds",
		metric.WithDescription("Number of training rounds executed"),
	)
	if err != nil {
		return nil, err
	}

	roundErrors, err := meter.Int64Counter("modelkeep.train.round_errors",
		metric.WithDescription("Number of failed training rounds"),
	)
	if err != nil {
		return nil, err
	}

	roundLatency, err := meter.Float64Histogram("modelkeep.train.round_latency_ms",
		metric.WithDescription("Training round latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("modelkeep.train.runs",
		metric.WithDescription("Number of training runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("modelkeep.train.run_latency_ms",
		metric.WithDescription("Training run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		saves:          saves,
		saveErrors:     saveErrors,
		saveLatency:    saveLatency,
		checkpointSize: checkpointSize,
		loads:          loads,
		loadErrors:     loadErrors,
		loadLatency:    loadLatency,
		pruneDeletions: pruneDeletions,
		pruneFailures:  pruneFailures,
		rounds:         rounds,
		roundErrors:    roundErrors,
		roundLatency:   roundLatency,
		runs:           runs,
		runLatency:     runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSave records a checkpoint save.
func (m *otelMetrics) RecordSave(ctx context.Context, duration time.Duration, sizeBytes int64, err error) {
	m.saves.Add(ctx, 1)
	m.saveLatency.Record(ctx, float64(duration.Milliseconds()))

	if err != nil {
		m.saveErrors.Add(ctx, 1)
		return
	}
	m.checkpointSize.Record(ctx, sizeBytes)
}

// RecordLoad records a checkpoint load.
func (m *otelMetrics) RecordLoad(ctx context.Context, duration time.Duration, err error) {
	m.loads.Add(ctx, 1)
	m.loadLatency.Record(ctx, float64(duration.Milliseconds()))

	if err != nil {
		m.loadErrors.Add(ctx, 1)
	}
}

// RecordPrune records the outcome of a prune pass.
func (m *otelMetrics) RecordPrune(ctx context.Context, deleted, failed int64) {
	if deleted > 0 {
		m.pruneDeletions.Add(ctx, deleted)
	}
	if failed > 0 {
		m.pruneFailures.Add(ctx, failed)
	}
}

// RecordRoundExecution records a training round.
func (m *otelMetrics) RecordRoundExecution(ctx context.Context, duration time.Duration, err error) {
	m.rounds.Add(ctx, 1)
	m.roundLatency.Record(ctx, float64(duration.Milliseconds()))

	if err != nil {
		m.roundErrors.Add(ctx, 1)
	}
}

// RecordTrainingRun records a training run.
func (m *otelMetrics) RecordTrainingRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
