package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // ring only, dumped on failure
	LevelPhase       // driver + phase boundaries
	LevelUnit        // per-unit spans
	LevelDebug       // everything including node decisions
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelUnit:
		return "unit"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag or config value to a Level. "detail" is kept as
// an alias of "unit".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "unit", "detail":
		return LevelUnit, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|unit|debug)", s)
	}
}

// ShouldEmit reports whether events of scope are written at this level.
// LevelError records everything into the ring and writes nothing.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError, LevelDebug:
		return true
	case LevelPhase:
		return scope <= ScopePhase
	case LevelUnit:
		return scope <= ScopeUnit
	default:
		return false
	}
}
