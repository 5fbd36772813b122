package category

import (
	"fmt"
	"strings"
)

// Kind is a semantic category of an abstractable lexical unit.
type Kind uint8

const (
	// Invalid is the zero value and never appears in an index.
	Invalid Kind = iota
	// Var is a variable or any other plain identifier use.
	Var
	// Func is a called function name.
	Func
	// Type is a type name.
	Type
	// Number is a numeric literal.
	Number
	// Field is a struct/class field access.
	Field
	// Str is a string literal.
	Str
	// Char is a character literal.
	Char
	// Comment is a line or block comment.
	Comment
	// Label is a statement label.
	Label
	// Annotation is a Java annotation name.
	Annotation

	kindCount
)

var names = [kindCount]string{
	Invalid:    "INVALID",
	Var:        "VAR",
	Func:       "FUNC",
	Type:       "TYPE",
	Number:     "NUMBER",
	Field:      "FIELD",
	Str:        "STR",
	Char:       "CHAR",
	Comment:    "COMMENT",
	Label:      "LABEL",
	Annotation: "ANNOTATION",
}

// длинные имена, которые встречаются в старых конфигурациях
var aliases = map[string]Kind{
	"VARIABLE":  Var,
	"FUNCTION":  Func,
	"STRING":    Str,
	"CHARACTER": Char,
}

// All returns every valid category in declaration order.
func All() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Var; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the canonical upper-case name, which is also the symbol prefix.
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return names[k]
}

// Valid reports whether k is one of the closed set of categories.
func (k Kind) Valid() bool {
	return k > Invalid && k < kindCount
}

// Symbol returns the replacement symbol for the n-th distinct key of this category.
// Comments keep a comment delimiter so the replacement is still a comment.
func (k Kind) Symbol(n int) string {
	if k == Comment {
		return fmt.Sprintf("/* %s_%d */", k, n)
	}
	return fmt.Sprintf("%s_%d", k, n)
}

// Parse resolves a category name. Matching is case-insensitive.
func Parse(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k := Var; k < kindCount; k++ {
		if names[k] == upper {
			return k, nil
		}
	}
	if k, ok := aliases[upper]; ok {
		return k, nil
	}
	return Invalid, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownCategory, name, strings.Join(Names(), ", "))
}

// Names returns the canonical names of all categories.
func Names() []string {
	out := make([]string, 0, kindCount-1)
	for _, k := range All() {
		out = append(out, k.String())
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
