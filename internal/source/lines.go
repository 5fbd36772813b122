package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Line describes one physical line of a file.
// [Start, End) is the line body, [End, Next) is its terminator ("\n", "\r\n" or nothing for the last line).
type Line struct {
	Start uint32
	End   uint32
	Next  uint32
}

// Terminator returns the length of the line terminator in bytes.
func (l Line) Terminator() uint32 {
	return l.Next - l.End
}

// SplitLines splits content into physical lines. Only '\n' ends a line, which matches
// how tree-sitter counts rows; a '\r' directly before it belongs to the terminator.
// Content ending with a terminator does not produce a trailing empty line.
func SplitLines(content []byte) []Line {
	total, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	lines := make([]Line, 0, 16)
	var start uint32
	for i := uint32(0); i < total; i++ {
		if content[i] != '\n' {
			continue
		}
		end := i
		if end > start && content[end-1] == '\r' {
			end--
		}
		lines = append(lines, Line{Start: start, End: end, Next: i + 1})
		start = i + 1
	}
	if start < total {
		lines = append(lines, Line{Start: start, End: total, Next: total})
	}
	return lines
}

// PointAt converts a byte offset into a zero-based row/column pair.
// Offsets past the last line resolve against the last line.
func PointAt(lines []Line, off uint32) Point {
	if len(lines) == 0 {
		return Point{Row: 0, Column: off}
	}
	// бинпоиск: первая строка, у которой Next > off
	idx := sort.Search(len(lines), func(i int) bool { return lines[i].Next > off })
	if idx == len(lines) {
		idx = len(lines) - 1
	}
	row, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("row overflow: %w", err))
	}
	return Point{Row: row, Column: off - lines[idx].Start}
}

// LineText returns the body of the given zero-based row without its terminator.
func (f *File) LineText(row int) string {
	if f == nil || row < 0 || row >= len(f.Lines) {
		return ""
	}
	l := f.Lines[row]
	return string(f.Content[l.Start:l.End])
}

// LineCount returns the number of physical lines.
func (f *File) LineCount() int {
	if f == nil {
		return 0
	}
	return len(f.Lines)
}
