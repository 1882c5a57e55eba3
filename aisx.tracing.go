package aisx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// newTracer resolves the tracer for an engine.
func newTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(DefaultTracerName)
}

// startRenderSpan opens the span covering one root render.
func (e *Engine) startRenderSpan(ctx context.Context, mode, root string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, SpanNameRender,
		trace.WithAttributes(
			attribute.String(SpanAttrMode, mode),
			attribute.String(SpanAttrRoot, root),
		),
	)
}

// endRenderSpan closes the span once the root result settled.
func endRenderSpan(span trace.Span, path string, nodes, issues int, err error) {
	span.SetAttributes(
		attribute.String(SpanAttrPath, path),
		attribute.Int(SpanAttrNodes, nodes),
		attribute.Int(SpanAttrIssueCount, issues),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
