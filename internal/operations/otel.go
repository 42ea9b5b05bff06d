package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"surveyprep/internal/infrastructure"
)

// TracerName is the instrumentation scope of run spans
const TracerName = "surveyprep.operations"

// RunTracer provides OpenTelemetry instrumentation for transform runs
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewRunTracer creates a tracer; a nil tracer or nil metrics disable the
// respective signal
func NewRunTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *RunTracer {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
	}
	return &RunTracer{tracer: tracer, metrics: metrics}
}

// NewRunTracerFromProviders builds a tracer and the pipeline instruments from
// initialized providers
func NewRunTracerFromProviders(providers *infrastructure.OTelProviders) (*RunTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	return NewRunTracer(providers.Tracer, metrics), nil
}

// TraceRun creates the span covering a whole run
func (t *RunTracer) TraceRun(ctx context.Context, state *RunState) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "transform."+state.Variant.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("run.variant", state.Variant.String()),
			attribute.Int("run.input_rows", state.Data.NumRows()),
			attribute.Int("run.input_columns", state.Data.NumColumns()),
		),
	)
}

// TraceStep creates a child span for one step
func (t *RunTracer) TraceStep(ctx context.Context, state *RunState, step Step) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
			attribute.Int("step.columns_before", state.Data.NumColumns()),
		),
	)
}

// RecordStepCompletion closes out a step span and records its metrics
func (t *RunTracer) RecordStepCompletion(ctx context.Context, span trace.Span, state *RunState, stepID string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Int("step.columns_after", state.Data.NumColumns()),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	t.metrics.RecordStep(ctx, state.Variant, stepID, duration, err)
}

// RecordRunCompletion closes out the run span and records run metrics
func (t *RunTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *RunState, err error) {
	duration := state.Duration()
	span.SetAttributes(
		attribute.String("run.status", string(state.GetStatus())),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.metrics.RecordRun(ctx, state.Variant, duration, nil, err)
		return
	}

	report := state.Report
	span.SetAttributes(
		attribute.Int("run.output_rows", report.OutputShape.Rows),
		attribute.Int("run.output_columns", report.OutputShape.Columns),
		attribute.Int("run.dropped_columns", len(report.Dropped)),
	)
	span.SetStatus(codes.Ok, "")
	t.metrics.RecordRun(ctx, state.Variant, duration, report, nil)
}
