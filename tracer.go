package tipbook

import "context"

// Tracer creates spans around build phases (load, outline, render, index).
// The observer package provides an OTEL-backed implementation via
// NewTracer(). A nil Tracer is valid and disables tracing entirely.
type Tracer interface {
	// Start creates a span with the given name and optional attributes.
	// Returns a child context carrying the span and the span itself.
	// Callers must call Span.End() when the operation completes.
	Start(ctx context.Context, name string, attrs ...SpanAttr) (context.Context, Span)
}

// Span represents a traced operation. Callers must call End() exactly once.
type Span interface {
	// SetAttr adds attributes to the span after creation.
	SetAttr(attrs ...SpanAttr)
	// Event records a named annotation on the span timeline.
	Event(name string, attrs ...SpanAttr)
	// Error records an error on the span and marks it as failed.
	Error(err error)
	// End completes the span.
	End()
}

// SpanAttr is a key-value attribute attached to a span or event.
type SpanAttr struct {
	Key   string
	Value any
}

// StringAttr creates a string-typed span attribute.
func StringAttr(k, v string) SpanAttr {
	return SpanAttr{Key: k, Value: v}
}

// IntAttr creates an int-typed span attribute.
func IntAttr(k string, v int) SpanAttr {
	return SpanAttr{Key: k, Value: v}
}

// StartSpan starts a span on tr, or returns a no-op span when tr is nil.
// Build phases call this so tracing stays a one-liner at call sites.
func StartSpan(ctx context.Context, tr Tracer, name string, attrs ...SpanAttr) (context.Context, Span) {
	if tr == nil {
		return ctx, noopSpan{}
	}
	return tr.Start(ctx, name, attrs...)
}

type noopSpan struct{}

func (noopSpan) SetAttr(...SpanAttr)       {}
func (noopSpan) Event(string, ...SpanAttr) {}
func (noopSpan) Error(error)               {}
func (noopSpan) End()                      {}
