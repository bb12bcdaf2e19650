package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fantasy-squad/internal/interfaces/httpapi"

var (
	apiTracer = otel.Tracer(tracerName)
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startHandlerSpan opens a child span named httpapi.Handler.<op>. Requests the
// tracing middleware filtered out have no parent and stay unspanned.
func startHandlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+op, trace.WithAttributes(requestAttributes(r)...))
}

func requestAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if id := r.PathValue("managerID"); id != "" {
		attrs = append(attrs, attribute.String("fantasy.manager_id", id))
	}
	if id := r.PathValue("gameweekID"); id != "" {
		attrs = append(attrs, attribute.String("fantasy.gameweek_id", id))
	} else if id := gameweekQuery(r); id != "" {
		attrs = append(attrs, attribute.String("fantasy.gameweek_id", id))
	}
	return attrs
}

// annotateSpan tags the active span with the error mapping. Only server-side
// failures mark the span as errored.
func annotateSpan(ctx context.Context, mapped mappedError, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("fantasy.error_reason", mapped.Reason),
		attribute.Int("http.response.status_code", mapped.HTTPStatus),
	)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Reason)
	}
}
