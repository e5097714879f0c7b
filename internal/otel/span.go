// Package otel provides tracing helpers shared by the tracker components.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used across spans so traces can be filtered consistently.
const (
	AttrTenantID     = attribute.Key("tracker.tenant_id")
	AttrPlayerID     = attribute.Key("tracker.player_id")
	AttrChannelID    = attribute.Key("tracker.channel_id")
	AttrEntityID     = attribute.Key("tracker.entity_id")
	AttrRosterSource = attribute.Key("roster.source_id")
	AttrRosterPages  = attribute.Key("roster.pages")
	AttrResultCount  = attribute.Key("result.count")
	AttrEventKind    = attribute.Key("live.event_kind")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise it returns the
// span already in ctx (a no-op span when there is none).
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic so connection strings or SQL never end
// up in span status; the event still carries the full error.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
