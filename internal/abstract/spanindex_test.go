package abstract

import (
	"errors"
	"fmt"
	"testing"

	"codeabs/internal/category"
)

func occ(line, col uint32, cat category.Kind, text string) Occurrence {
	return Occurrence{Line: line, Column: col, Category: cat, ID: NoOccurrence, Text: text}
}

// checkIndex re-checks line filing, column order and disjointness of x.
func checkIndex(t *testing.T, x *Index) {
	t.Helper()
	for _, line := range x.Lines() {
		row := x.On(line)
		last := -1 // последний непустой
		for i := range row {
			var err error
			switch {
			case row[i].Line != line:
				err = fmt.Errorf("%s filed under line %d", row[i], line)
			case i > 0 && row[i-1].Column > row[i].Column:
				err = fmt.Errorf("line %d is not sorted", line)
			case last >= 0 && row[last].Span().Overlaps(row[i].Span()):
				err = fmt.Errorf("%s and %s overlap", row[last], row[i])
			}
			if err != nil {
				t.Fatalf("index check: %v", err)
			}
			if !row[i].Span().Empty() {
				last = i
			}
		}
	}
}

func TestIndexKeepsLinesSorted(t *testing.T) {
	x := NewIndex()
	for _, o := range []Occurrence{
		occ(0, 10, category.Var, "b"),
		occ(0, 2, category.Var, "a"),
		occ(3, 0, category.Type, "int"),
		occ(0, 20, category.Number, "1"),
	} {
		if err := x.Record(o); err != nil {
			t.Fatalf("Record(%s): %v", o, err)
		}
	}
	row := x.On(0)
	if len(row) != 3 || row[0].Column != 2 || row[1].Column != 10 || row[2].Column != 20 {
		t.Fatalf("line 0 not sorted: %v", row)
	}
	if lines := x.Lines(); len(lines) != 2 || lines[0] != 0 || lines[1] != 3 {
		t.Fatalf("Lines() = %v", lines)
	}
	if x.Len() != 4 || len(x.All()) != 4 {
		t.Fatalf("Len = %d, All = %d", x.Len(), len(x.All()))
	}
	if len(x.On(7)) != 0 {
		t.Fatalf("empty line has occurrences")
	}
}

func TestIndexRejectsOverlap(t *testing.T) {
	tests := []struct {
		name  string
		first Occurrence
		next  Occurrence
	}{
		{"same start", occ(0, 4, category.Var, "abc"), occ(0, 4, category.Func, "a")},
		{"tail", occ(0, 4, category.Var, "abc"), occ(0, 6, category.Var, "cd")},
		{"head", occ(0, 4, category.Var, "abc"), occ(0, 2, category.Var, "xyz")},
		{"inside", occ(0, 0, category.Comment, "/* long */"), occ(0, 3, category.Var, "long")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewIndex()
			if err := x.Record(tt.first); err != nil {
				t.Fatalf("first Record: %v", err)
			}
			if err := x.Record(tt.next); !errors.Is(err, ErrOverlap) {
				t.Fatalf("expected ErrOverlap, got %v", err)
			}
			if x.Len() != 1 {
				t.Errorf("rejected occurrence was stored")
			}
		})
	}
}

func TestIndexAdjacentAndEmpty(t *testing.T) {
	x := NewIndex()
	steps := []Occurrence{
		occ(0, 0, category.Var, "ab"),
		occ(0, 2, category.Var, "cd"),
		occ(0, 2, category.Comment, ""),
	}
	for _, o := range steps {
		if err := x.Record(o); err != nil {
			t.Fatalf("Record(%s): %v", o, err)
		}
	}
	// пустой диапазон не должен прятать соседа слева
	if err := x.Record(occ(0, 3, category.Var, "x")); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap past empty span, got %v", err)
	}
	checkIndex(t, x)
}

func TestIndexRejectsInvalidCategory(t *testing.T) {
	x := NewIndex()
	err := x.Record(occ(0, 0, category.Invalid, "x"))
	if !errors.Is(err, category.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestOccurrenceKey(t *testing.T) {
	single := occ(0, 0, category.Var, "x")
	if single.Key() != "x" {
		t.Errorf("single-line key = %q", single.Key())
	}
	multi := Occurrence{Text: "b */", ID: 3, Category: category.Comment}
	if multi.Key() != "b */$$3" {
		t.Errorf("multi-line key = %q", multi.Key())
	}
}
