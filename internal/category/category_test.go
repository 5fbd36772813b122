package category_test

import (
	"errors"
	"testing"

	"codeabs/internal/category"
)

func TestParseNamesAndAliases(t *testing.T) {
	tests := []struct {
		in   string
		want category.Kind
	}{
		{"VAR", category.Var},
		{"var", category.Var},
		{" Comment ", category.Comment},
		{"VARIABLE", category.Var},
		{"FUNCTION", category.Func},
		{"STRING", category.Str},
		{"CHARACTER", category.Char},
		{"ANNOTATION", category.Annotation},
	}
	for _, tt := range tests {
		got, err := category.Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := category.Parse("MACRO")
	if !errors.Is(err, category.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := category.Parse("INVALID"); err == nil {
		t.Fatalf("INVALID must not be accepted as a category")
	}
}

func TestSymbol(t *testing.T) {
	if got := category.Var.Symbol(0); got != "VAR_0" {
		t.Errorf("Var.Symbol(0) = %q", got)
	}
	if got := category.Func.Symbol(3); got != "FUNC_3" {
		t.Errorf("Func.Symbol(3) = %q", got)
	}
	if got := category.Comment.Symbol(1); got != "/* COMMENT_1 */" {
		t.Errorf("Comment.Symbol(1) = %q", got)
	}
}

func TestAllIsClosedSet(t *testing.T) {
	all := category.All()
	if len(all) != 10 {
		t.Fatalf("expected 10 categories, got %d: %v", len(all), all)
	}
	for _, k := range all {
		if !k.Valid() {
			t.Errorf("%v should be valid", k)
		}
	}
	if category.Invalid.Valid() {
		t.Errorf("Invalid must not be valid")
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range category.All() {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", k, err)
		}
		var back category.Kind
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if back != k {
			t.Errorf("round trip %v -> %s -> %v", k, b, back)
		}
	}
}
