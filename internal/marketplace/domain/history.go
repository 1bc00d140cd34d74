package domain

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Entity names used in the status history.
const (
	EntityOrder     = "order"
	EntityOrderItem = "order_item"
)

// StatusChange is one row of the append-only status history. Every order,
// item and payment transition writes one, so the current state of a record
// can be audited and correlated with the distributed trace that caused it.
type StatusChange struct {
	Entity   string
	EntityID string

	// Field is "order_status" or "payment_status".
	Field string
	From  string
	To    string

	// TraceID and SpanID come from the OpenTelemetry span active when the
	// change was made; empty when no span was recording.
	TraceID string
	SpanID  string

	CreatedAt time.Time
}

// TraceInfo holds the W3C identifiers of the span in a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// ctx carries no valid span (e.g. in unit tests).
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewStatusChange builds a history row stamped with the trace of ctx.
func NewStatusChange(ctx context.Context, entity, entityID, field, from, to string) StatusChange {
	ti := ExtractTraceInfo(ctx)
	return StatusChange{
		Entity:    entity,
		EntityID:  entityID,
		Field:     field,
		From:      from,
		To:        to,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		CreatedAt: time.Now().UTC(),
	}
}
