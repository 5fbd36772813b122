package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory; on a failed run they show what
// the workers were doing right before.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	next   uint64 // events ever stored; next%len(events) is the write slot
	level  Level
}

// NewRingTracer creates a new RingTracer with the given capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !accepts(t.level, ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next%uint64(len(t.events))] = *ev
	t.next++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := uint64(len(t.events))
	if t.next <= size {
		return append([]Event(nil), t.events[:t.next]...)
	}
	head := t.next % size
	out := make([]Event, 0, size)
	out = append(out, t.events[head:]...)
	return append(out, t.events[:head]...)
}

// Overwritten is the number of events lost to wrap-around.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if size := uint64(len(t.events)); t.next > size {
		return t.next - size
	}
	return 0
}

// Dump writes the stored events to w, preceded by a note when older events
// were overwritten.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if lost := t.Overwritten(); lost > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "... %d earlier events overwritten\n", lost); err != nil {
			return err
		}
	}
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
