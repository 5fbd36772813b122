package driver

import (
	"io"
	"time"

	"codeabs/internal/category"
	"codeabs/internal/lang"
	"codeabs/internal/observ"
	"codeabs/internal/ui"
)

// Options controls a driver run.
type Options struct {
	// Categories selects what is substituted at render time.
	Categories category.Config
	// Lang forces a language; Unknown means detect per unit.
	Lang lang.Kind
	// Jobs caps concurrent workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Timeout bounds parse plus classification of one unit; 0 disables it.
	Timeout time.Duration
	// Cache stores classified units across runs; nil disables caching.
	Cache *Cache
	// MaxDiagnostics limits the batch bag.
	MaxDiagnostics int
	// Timer accumulates per-unit phase timings; may be nil.
	Timer *observ.Timer
	// Progress receives one event when a unit starts and one when it finishes.
	Progress func(ui.Event)
	// Heartbeat is the interval of batch progress events in the trace; 0 disables them.
	Heartbeat time.Duration
	// Dump receives the original and abstracted text of every unit.
	Dump io.Writer
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 1000
}

func (o Options) progress(unit string, status ui.Status, note string) {
	if o.Progress != nil {
		o.Progress(ui.Event{Unit: unit, Status: status, Note: note})
	}
}
