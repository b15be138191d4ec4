package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/domain"
)

const (
	TracerName = "bikeshare.query"
)

// Pipeline stage names used for spans and the stage duration histogram.
const (
	StageLoad   = "load"
	StageEnrich = "enrich"
	StageFilter = "filter"
)

// Query cycle outcomes recorded on query_cycles_total.
const (
	OutcomeSuccess  = "success"
	OutcomeNoData   = "no_data"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// PipelineTracer provides OpenTelemetry instrumentation for query cycles
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// NewPipelineTracer creates a new pipeline tracer. A nil tracer falls back to
// the global provider and a nil metrics value disables metric recording.
func NewPipelineTracer(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) *PipelineTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &PipelineTracer{
		tracer:  tracer,
		metrics: metrics,
	}
}

// TraceQuery creates a span for an entire query cycle
func (pt *PipelineTracer) TraceQuery(ctx context.Context, criteria domain.FilterCriteria) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "query.cycle",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(criteriaAttributes(criteria)...),
	)
}

// TraceStage runs fn inside a child span named after the stage and records
// its duration. The returned duration is what was recorded.
func (pt *PipelineTracer) TraceStage(ctx context.Context, stage string, fn func(ctx context.Context) error) (time.Duration, error) {
	ctx, span := pt.tracer.Start(ctx, fmt.Sprintf("query.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("query.stage", stage)),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Float64("query.stage.duration_seconds", elapsed.Seconds()))
	pt.metrics.RecordStage(ctx, stage, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return elapsed, err
	}
	span.SetStatus(codes.Ok, "")
	return elapsed, nil
}

// RecordTripsLoaded annotates the current span and counts loaded trips.
func (pt *PipelineTracer) RecordTripsLoaded(ctx context.Context, city domain.City, loaded, skipped int) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("query.trips_loaded", loaded),
		attribute.Int("query.rows_skipped", skipped),
	)
	pt.metrics.RecordTripsLoaded(ctx, string(city), loaded)
}

// RecordCompletion closes out the query span with its outcome.
func (pt *PipelineTracer) RecordCompletion(ctx context.Context, span trace.Span, criteria domain.FilterCriteria, trips int, err error) {
	outcome := Outcome(err)
	span.SetAttributes(
		attribute.String("query.outcome", outcome),
		attribute.Int("query.trips", trips),
	)

	pt.metrics.RecordQueryCycle(ctx, string(criteria.City), outcome)
	if err != nil {
		pt.metrics.RecordQueryError(ctx, ErrorKind(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "query cycle completed")
}

// Outcome classifies the result of a query cycle.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apierrors.TypeOf(err) == apierrors.ErrTypeNoDataForFilter:
		return OutcomeNoData
	case isContextError(err):
		return OutcomeCanceled
	default:
		return OutcomeFailure
	}
}

// ErrorKind returns the label used on query_errors_total.
func ErrorKind(err error) string {
	if isContextError(err) {
		return "canceled"
	}
	if t := apierrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "internal"
}

func criteriaAttributes(c domain.FilterCriteria) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("query.city", string(c.City)),
		attribute.String("query.month", c.Month.String()),
		attribute.String("query.day", c.Day.String()),
	}
}
