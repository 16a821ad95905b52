package contexts

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// Trace links an event to a distributed trace.
type Trace struct {
	TraceID      string
	SpanID       string
	ParentSpanID string
	Op           string
	Status       string
	Sampled      *bool
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (t Trace) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("trace_id", t.TraceID)
	w.String("span_id", t.SpanID)
	w.String("parent_span_id", t.ParentSpanID)
	w.String("op", t.Op)
	w.String("status", t.Status)
	w.OptionalBool("sampled", t.Sampled)
	return w.Bytes(), nil
}

// TraceFromContext reads the OpenTelemetry span context carried by ctx.
// It returns false when ctx carries no valid span context.
func TraceFromContext(ctx context.Context) (Trace, bool) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return Trace{}, false
	}
	return Trace{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
		Sampled: Bool(sc.IsSampled()),
	}, true
}
