// Package observability provides production-grade observability features
// for modelkeep: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds training context to a logger.
// Returns a new logger with run_id and round fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 8)
//	enriched.Info("doing work") // includes run_id, round
func EnrichLogger(logger *slog.Logger, runID string, round int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("round", round),
	)
}

// LogRunStart logs the start of a training run.
func LogRunStart(logger *slog.Logger, runID string, startRound, totalRounds int) {
	if logger == nil {
		return
	}
	logger.Info("training run starting",
		slog.String("run_id", runID),
		slog.Int("start_round", startRound),
		slog.Int("total_rounds", totalRounds),
	)
}

// LogRunComplete logs successful training run completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, rounds int) {
	if logger == nil {
		return
	}
	logger.Info("training run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("rounds_executed", rounds),
	)
}

// LogRunError logs training run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, round int) {
	if logger == nil {
		return
	}
	logger.Error("training run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("round", round),
	)
}

// LogRoundStart logs round execution start.
func LogRoundStart(logger *slog.Logger, round int) {
	if logger == nil {
		return
	}
	logger.Debug("round starting",
		slog.Int("round", round),
	)
}

// LogRoundComplete logs successful round completion.
func LogRoundComplete(logger *slog.Logger, round int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("round completed",
		slog.Int("round", round),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogResume logs that a run is continuing from a stored checkpoint.
func LogResume(logger *slog.Logger, round, version int) {
	if logger == nil {
		return
	}
	logger.Info("resuming from checkpoint",
		slog.Int("round", round),
		slog.Int("version", version),
	)
}

// LogCheckpointSaved logs checkpoint creation.
func LogCheckpointSaved(logger *slog.Logger, round, version, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("checkpoint saved",
		slog.Int("round", round),
		slog.Int("version", version),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogCheckpointDeleted logs removal of a superseded checkpoint.
func LogCheckpointDeleted(logger *slog.Logger, path string) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint deleted",
		slog.String("path", path),
	)
}

// LogCheckpointDeleteError logs a failed checkpoint deletion (non-fatal).
func LogCheckpointDeleteError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("checkpoint delete failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
