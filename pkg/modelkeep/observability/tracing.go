package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the modelkeep tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("modelkeep")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span for an entire training run.
	// Returns the context with span and the span itself.
	StartRunSpan(ctx context.Context, jobName, runID string) (context.Context, trace.Span)

	// StartRoundSpan starts a span for a training round.
	// The round span should be a child of the run span.
	StartRoundSpan(ctx context.Context, round int) (context.Context, trace.Span)

	// StartCheckpointSpan starts a span for a checkpoint operation
	// ("save", "load", "prune", "schedule").
	StartCheckpointSpan(ctx context.Context, op string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for an entire training run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, jobName, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "modelkeep.train",
		trace.WithAttributes(
			attribute.String("job.name", jobName),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRoundSpan starts a span for a training round.
func (m *otelSpanManager) StartRoundSpan(ctx context.Context, round int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "modelkeep.round",
		trace.WithAttributes(
			attribute.Int("round", round),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCheckpointSpan starts a span for a checkpoint operation.
func (m *otelSpanManager) StartCheckpointSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "modelkeep.checkpoint."+op,
		trace.WithAttributes(
			attribute.String("checkpoint.op", op),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
