package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/stream"
)

// OperationContext holds observability context for a tracked client call.
type OperationContext struct {
	Dialect   string
	Model     string
	Operation string
	RequestID string
	StartTime time.Time
	Metrics   *Metrics
}

// NewOperationContext creates a new operation context.
// If metrics is nil, metric recording is silently skipped.
func NewOperationContext(dialect, model, operation, requestID string, metrics *Metrics) *OperationContext {
	return &OperationContext{
		Dialect:   dialect,
		Model:     model,
		Operation: operation,
		RequestID: requestID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// operationContextKey is the context key for OperationContext.
type operationContextKey struct{}

// WithOperationContext stores an OperationContext in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext retrieves the OperationContext from context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	if oc, ok := ctx.Value(operationContextKey{}).(*OperationContext); ok {
		return oc
	}
	return nil
}

// StartSpanForOperation starts a traced span annotated with the call's identity.
func (oc *OperationContext) StartSpanForOperation(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrDialect, oc.Dialect),
		attribute.String(AttrModel, oc.Model),
		attribute.String(AttrOperationName, oc.Operation),
	)
	if oc.RequestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, oc.RequestID))
	}
	return ctx, span
}

// StartStreamSpan starts a traced span for a streaming call and increments the
// active stream gauge. Pair with EndStream.
func (oc *OperationContext) StartStreamSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := oc.StartSpanForOperation(ctx, spanName)
	if oc.Metrics != nil {
		oc.Metrics.RecordStreamStart(ctx)
	}
	return ctx, span
}

// EndOperation ends the span and records request metrics. For streaming
// calls use EndStream instead.
func (oc *OperationContext) EndOperation(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(oc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if oc.Metrics != nil {
			oc.Metrics.RecordError(ctx, errType(err), oc.Operation)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if oc.Metrics != nil {
		oc.Metrics.RecordRequest(ctx, oc.Dialect, oc.Model, status, duration)
	}
}

// EndStream ends the span and records stream outcome metrics, including the
// number of chunks delivered before the terminal event.
func (oc *OperationContext) EndStream(ctx context.Context, span trace.Span, outcome string, chunks int64, err error) {
	duration := time.Since(oc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if oc.Metrics != nil {
			oc.Metrics.RecordError(ctx, errType(err), oc.Operation)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, outcome),
		attribute.Int64(AttrChunks, chunks),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if oc.Metrics != nil {
		oc.Metrics.RecordStreamEnd(ctx, oc.Dialect, oc.Model, outcome, chunks, duration)
	}
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}

// errType labels an error for the error counter. Typed client errors carry
// their own code; everything else falls back to a context-based label.
func errType(err error) string {
	var se *stream.Error
	if errors.As(err, &se) {
		return se.Code.String()
	}
	var he *httpclient.Error
	if errors.As(err, &he) {
		return he.Code.String()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "other"
}
