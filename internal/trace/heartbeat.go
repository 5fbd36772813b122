package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically reports how far a batch has got. A heartbeat whose
// progress stops moving points at a stuck unit.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	probe    func() string
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat starts the heartbeat goroutine; probe, if not nil, supplies
// the event detail. It returns nil when tracing is disabled or interval is
// not positive. Stop on nil is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration, probe func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, interval: interval, probe: probe, stop: make(chan struct{})}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for beats := 1; ; beats++ {
		select {
		case <-ticker.C:
			h.beat(beats)
		case <-h.stop:
			return
		}
	}
}

func (h *Heartbeat) beat(n int) {
	detail := fmt.Sprintf("#%d", n)
	if h.probe != nil {
		detail += " " + h.probe()
	}
	h.tracer.Emit(&Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: detail,
	})
}

// Stop ends the heartbeat goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
