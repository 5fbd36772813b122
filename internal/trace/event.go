package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers whole commands: a file, a dataset run.
	ScopeDriver Scope = iota + 1
	// ScopePhase covers load, parse, classify and render.
	ScopePhase
	// ScopeUnit covers one function or file.
	ScopeUnit
	// ScopeNode covers steps inside one unit and classification decisions.
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeUnit:
		return "unit"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	Unit     string // enclosing unit, "" above unit scope
	Worker   int    // pool worker, 0 outside a batch
	Name     string // "parse", "record#17(CVE-2019-0001).func", "dataset"
	Detail   string
	Extra    map[string]string
}
