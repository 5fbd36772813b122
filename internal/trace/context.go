package trace

import "context"

type ctxKey struct{}

// FromContext returns the Tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// Position is what nested events inherit from ctx: the enclosing span, the
// unit being abstracted and the pool worker running it.
type Position struct {
	SpanID uint64
	Unit   string
	Worker int // 0 outside a worker pool
}

type positionKey struct{}

// PositionOf returns the position carried by ctx, or the zero Position.
func PositionOf(ctx context.Context) Position {
	if ctx == nil {
		return Position{}
	}
	if p, ok := ctx.Value(positionKey{}).(Position); ok {
		return p
	}
	return Position{}
}

func withPosition(ctx context.Context, p Position) context.Context {
	return context.WithValue(ctx, positionKey{}, p)
}

// WithWorker tags events emitted under ctx with pool worker n (1-based).
func WithWorker(ctx context.Context, n int) context.Context {
	p := PositionOf(ctx)
	p.Worker = n
	return withPosition(ctx, p)
}
