// Package observability provides OpenTelemetry tracing for reclaim
// workloads, plus helpers to correlate zap logs with the active span.
package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/ajitpratap0/reclaim"

var tracer atomic.Pointer[trace.Tracer]

func setTracer(t trace.Tracer) {
	tracer.Store(&t)
}

// GetTracer returns the tracer installed by InitTracing, or one from the
// global provider (a no-op until a provider is installed).
func GetTracer() trace.Tracer {
	if t := tracer.Load(); t != nil {
		return *t
	}
	return otel.Tracer(instrumentationName)
}

// Span wraps a trace span, batching attributes until End.
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// StartSpan starts a span named name as a child of any span in ctx.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := GetTracer().Start(ctx, name, trace.WithAttributes(attrs...))

	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span. Attributes are applied in
// one call at End.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	case time.Duration:
		attr = attribute.String(key, v.String())
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records err on the span and marks it failed. A nil err
// marks the span successful.
func (s *Span) RecordError(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// Context returns the span context.
func (s *Span) Context() trace.SpanContext {
	return s.span.SpanContext()
}

// End flushes batched attributes, records the elapsed time and ends the span.
func (s *Span) End() {
	s.attributes = append(s.attributes, attribute.Int64("duration_us", time.Since(s.startTime).Microseconds()))
	s.span.SetAttributes(s.attributes...)
	s.span.End()
}

// PoolTracer starts spans carrying the identity of one pool under one
// workload.
type PoolTracer struct {
	workload string
	pool     string
}

// NewPoolTracer creates a tracer for pool under workload.
func NewPoolTracer(workload, pool string) *PoolTracer {
	return &PoolTracer{workload: workload, pool: pool}
}

// StartSpan starts a span named workload.operation with pool attributes.
func (pt *PoolTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	return StartSpan(ctx, pt.workload+"."+operation,
		attribute.String("pool.name", pt.pool),
		attribute.String("workload.name", pt.workload),
		attribute.String("workload.operation", operation),
	)
}

// Trace runs fn inside a span for operation and records its outcome.
func (pt *PoolTracer) Trace(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := pt.StartSpan(ctx, operation)
	defer span.End()

	err := fn(ctx)
	span.RecordError(err)
	return err
}

// LoggerWithSpan returns l annotated with the trace and span IDs found in
// ctx. Without a valid span l is returned unchanged.
func LoggerWithSpan(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
