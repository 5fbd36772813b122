package abstract

import (
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"

	"codeabs/internal/category"
	"codeabs/internal/source"
)

// NoOccurrence is the occurrence id of single-line occurrences.
const NoOccurrence = -1

// Occurrence is one physical-line slice of an abstractable node.
type Occurrence struct {
	Line     uint32
	Column   uint32 // byte offset from line start
	Category category.Kind
	// ID links the physical lines of one multi-line node; NoOccurrence otherwise.
	ID int
	// Continuation marks every line of a multi-line node except the first.
	Continuation bool
	Text         string
}

// Length is the byte length of the occurrence on its line.
func (o Occurrence) Length() uint32 {
	n, err := safecast.Conv[uint32](len(o.Text))
	if err != nil {
		panic(fmt.Errorf("occurrence length overflow: %w", err))
	}
	return n
}

// Span returns the occurrence's byte range relative to the start of its line.
func (o Occurrence) Span() source.Span {
	return source.SpanOf(o.Column, o.Text)
}

// Key returns the symbol table key the occurrence was interned under.
func (o Occurrence) Key() string {
	if o.ID == NoOccurrence {
		return o.Text
	}
	return Key(o.Text, o.ID)
}

func (o Occurrence) String() string {
	return fmt.Sprintf("%d:%d %s %q", o.Line, o.Column, o.Category, o.Text)
}

// Index stores occurrences by line, each line sorted by column.
// Ranges on one line never overlap.
type Index struct {
	lines map[uint32][]Occurrence
	count int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{lines: make(map[uint32][]Occurrence)}
}

// Record inserts o keeping its line sorted. An occurrence sharing bytes with
// one already on the line is rejected with ErrOverlap.
func (x *Index) Record(o Occurrence) error {
	if !o.Category.Valid() {
		return fmt.Errorf("record %s: %w", o, category.ErrUnknownCategory)
	}
	row := x.lines[o.Line]
	pos := sort.Search(len(row), func(i int) bool { return row[i].Column > o.Column })
	span := o.Span()
	// empty spans overlap nothing, so look past them on both sides
	for i := pos - 1; i >= 0; i-- {
		if row[i].Span().Overlaps(span) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, row[i], o)
		}
		if !row[i].Span().Empty() {
			break
		}
	}
	for i := pos; i < len(row) && row[i].Column < span.End; i++ {
		if row[i].Span().Overlaps(span) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, o, row[i])
		}
	}
	x.lines[o.Line] = slices.Insert(row, pos, o)
	x.count++
	return nil
}

// On returns the occurrences of a line sorted by column. The slice must not be modified.
func (x *Index) On(line uint32) []Occurrence {
	if x == nil {
		return nil
	}
	return x.lines[line]
}

// Lines returns the lines that carry at least one occurrence, ascending.
func (x *Index) Lines() []uint32 {
	if x == nil {
		return nil
	}
	out := make([]uint32, 0, len(x.lines))
	for line, occs := range x.lines {
		if len(occs) > 0 {
			out = append(out, line)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of recorded occurrences.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return x.count
}

// All returns every occurrence in line, then column order.
func (x *Index) All() []Occurrence {
	out := make([]Occurrence, 0, x.Len())
	for _, line := range x.Lines() {
		out = append(out, x.lines[line]...)
	}
	return out
}
