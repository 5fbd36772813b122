package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range [Start, End) on one line of a unit.
type Span struct {
	Start uint32
	End   uint32
}

// SpanOf is the span covered by text starting at column start.
func SpanOf(start uint32, text string) Span {
	n, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("span length overflow: %w", err))
	}
	return Span{Start: start, End: start + n}
}

// Empty spans mark zero-width tokens; they never overlap anything.
func (s Span) Empty() bool { return s.Start >= s.End }

// Overlaps reports whether the two ranges share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
