package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("teamflow/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Middleware and
// response helpers share the request span created by otelhttp, and requests
// without a span (health probes) never get one.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	op, ok := handlerOperation(name)
	if !ok || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}

	attrs := []attribute.KeyValue{attribute.String("teamflow.operation", op)}
	if principal, found := principalFromContext(ctx); found {
		attrs = append(attrs, attribute.String("teamflow.user_id", principal.UserID))
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func handlerOperation(name string) (string, bool) {
	op, ok := strings.CutPrefix(name, handlerSpanPrefix)
	if !ok || op == "" {
		return "", false
	}
	return op, true
}
