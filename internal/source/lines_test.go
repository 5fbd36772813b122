package source

import (
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Line
	}{
		{
			name:    "empty",
			content: "",
			want:    []Line{},
		},
		{
			name:    "single line without terminator",
			content: "int x;",
			want:    []Line{{Start: 0, End: 6, Next: 6}},
		},
		{
			name:    "trailing newline does not add a line",
			content: "a\nbc\n",
			want:    []Line{{Start: 0, End: 1, Next: 2}, {Start: 2, End: 4, Next: 5}},
		},
		{
			name:    "crlf terminator excluded from body",
			content: "a\r\nb",
			want:    []Line{{Start: 0, End: 1, Next: 3}, {Start: 3, End: 4, Next: 4}},
		},
		{
			name:    "lone carriage return is content",
			content: "a\rb\n",
			want:    []Line{{Start: 0, End: 3, Next: 4}},
		},
		{
			name:    "blank lines",
			content: "\n\nx",
			want:    []Line{{Start: 0, End: 0, Next: 1}, {Start: 1, End: 1, Next: 2}, {Start: 2, End: 3, Next: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines([]byte(tt.content))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPointAt(t *testing.T) {
	lines := SplitLines([]byte("ab\ncde\r\nf"))
	tests := []struct {
		off  uint32
		want Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{8, Point{2, 0}},
		{9, Point{2, 1}},
	}
	for _, tt := range tests {
		if got := PointAt(lines, tt.off); got != tt.want {
			t.Errorf("PointAt(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestLineText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("unit.c", []byte("first\r\nsecond\n")))
	if f.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", f.LineCount())
	}
	if f.LineText(0) != "first" || f.LineText(1) != "second" {
		t.Errorf("unexpected line texts %q %q", f.LineText(0), f.LineText(1))
	}
	if f.LineText(5) != "" {
		t.Errorf("out of range row must be empty")
	}
	if f.Flags&FileHasCRLF == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("expected virtual+crlf flags, got %b", f.Flags)
	}
}

func TestSpanOf(t *testing.T) {
	s := SpanOf(4, "abc")
	if s.Start != 4 || s.End != 7 || s.String() != "[4,7)" {
		t.Fatalf("SpanOf = %v", s)
	}
	if !SpanOf(2, "").Empty() || SpanOf(2, "").Overlaps(s) {
		t.Errorf("empty span must not overlap")
	}
	if !s.Overlaps(SpanOf(6, "xy")) || s.Overlaps(SpanOf(7, "z")) {
		t.Errorf("Overlaps is not half-open")
	}
}
