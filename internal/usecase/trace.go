package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var usecaseTracer = otel.Tracer("teamflow/internal/usecase")

// startUsecaseSpan opens "usecase.<Service>.<Method>" under an existing
// request span. Anything else gets a no-op span.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	service, method, ok := splitSpanName(name)
	if !ok || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("teamflow.service", service),
		attribute.String("teamflow.method", method),
	))
}

func splitSpanName(name string) (service, method string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(name), "usecase.")
	if !found {
		return "", "", false
	}
	service, method, ok = strings.Cut(rest, ".")
	return service, method, ok && service != "" && method != ""
}
