package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one pipeline phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks top-level phases of a run and per-unit phase totals.
// Begin/End are used by the main goroutine; Add is safe for worker goroutines.
type Timer struct {
	phases []Phase

	mu     sync.Mutex
	totals map[string]*aggregate
}

type aggregate struct {
	count int
	total time.Duration
	max   time.Duration
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), totals: make(map[string]*aggregate)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add accumulates one measurement of a per-unit phase (parse, classify, render).
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	a, ok := t.totals[name]
	if !ok {
		a = &aggregate{}
		t.totals[name] = a
	}
	a.count++
	a.total += d
	a.max = max(a.max, d)
	t.mu.Unlock()
}

// Measure runs fn and records its duration under name.
func (t *Timer) Measure(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Add(name, time.Since(start))
	return err
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %9.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %9.2f ms\n", "total", report.TotalMS)
	if len(report.Units) > 0 {
		b.WriteString("per unit:\n")
		for _, u := range report.Units {
			fmt.Fprintf(&b, "  %-20s %9.2f ms  n=%-7d avg=%.3f ms  max=%.3f ms\n",
				u.Name, u.TotalMS, u.Count, u.AvgMS, u.MaxMS)
		}
	}
	return b.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// UnitReport агрегирует измерения одной фазы по всем единицам.
type UnitReport struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	AvgMS   float64 `json:"avg_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Units   []UnitReport  `json:"units,omitempty"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)

	t.mu.Lock()
	for name, a := range t.totals {
		report.Units = append(report.Units, UnitReport{
			Name:    name,
			Count:   a.count,
			TotalMS: durationToMillis(a.total),
			AvgMS:   durationToMillis(a.total) / float64(a.count),
			MaxMS:   durationToMillis(a.max),
		})
	}
	t.mu.Unlock()
	sort.Slice(report.Units, func(i, j int) bool { return report.Units[i].Name < report.Units[j].Name })
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
