package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/catalog-service/pkg/correlationid"
)

var _ slog.Handler = contextHandler{}

// contextExtractor returns the attributes a context contributes to a record.
type contextExtractor func(ctx context.Context) []slog.Attr

// contextHandler adds request scoped attributes to every record.
type contextHandler struct {
	next       slog.Handler
	extractors []contextExtractor
}

func newContextHandler(next slog.Handler, extractors ...contextExtractor) contextHandler {
	return contextHandler{next: next, extractors: extractors}
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		r.AddAttrs(extract(ctx)...)
	}

	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newContextHandler(h.next.WithAttrs(attrs), h.extractors...)
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return newContextHandler(h.next.WithGroup(name), h.extractors...)
}

func correlationAttrs(ctx context.Context) []slog.Attr {
	id, ok := correlationid.FromContext(ctx)
	if !ok {
		return nil
	}
	return []slog.Attr{slog.String("correlation_id", id)}
}

func traceAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
