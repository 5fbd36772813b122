package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span tracks one begin/end pair.
type Span struct {
	tracer  Tracer
	id      uint64
	pos     Position // parent span, unit and worker
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin starts a root span. Disabled tracers and filtered scopes get an inert
// span that is still safe to End.
func Begin(t Tracer, scope Scope, name string) *Span {
	return begin(t, scope, name, Position{})
}

func begin(t Tracer, scope Scope, name string, pos Position) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop, started: time.Now()}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		pos:     pos,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.pos.SpanID,
		Unit:     s.pos.Unit,
		Worker:   s.pos.Worker,
		Name:     s.name,
		Detail:   detail,
	}
}

// Start begins a span under the current position of ctx and returns a context
// carrying it. A ScopeUnit span also becomes the unit of everything nested.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	pos := PositionOf(ctx)
	s := begin(FromContext(ctx), scope, name, pos)
	if scope == ScopeUnit {
		pos.Unit = name
	}
	if s.id != 0 {
		pos.SpanID = s.id
	}
	return withPosition(ctx, pos), s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	if s.tracer == nil || !s.tracer.Enabled() {
		return dur
	}
	ev := s.event(KindSpanEnd, time.Now(), detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return dur
}

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event at the current position of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	pos := PositionOf(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: pos.SpanID,
		Unit:     pos.Unit,
		Worker:   pos.Worker,
		Name:     name,
		Detail:   detail,
	})
}
