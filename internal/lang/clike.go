package lang

import (
	"codeabs/internal/category"
	"codeabs/internal/syntax"
)

// clike classifies C and C++ trees. Both grammars share the node kinds it inspects.
type clike struct {
	lang Kind
}

var cKeywords = keywordSet(
	"auto", "break", "case", "continue", "default", "do",
	"else", "enum", "extern", "for", "goto", "if",
	"register", "return", "sizeof", "static",
	"struct", "switch", "typedef", "union", "unsigned", "volatile", "while",
)

func (p clike) Language() Kind { return p.lang }

func (p clike) Reserved(text string) bool {
	_, ok := cKeywords[text]
	return ok
}

func (p clike) Classify(n syntax.Node, text string, h History) (category.Kind, bool) {
	switch n.Kind() {
	case "identifier", "type_identifier", "primitive_type", "sized_type_specifier",
		"field_identifier", "char_literal", "number_literal", "statement_identifier":
		return p.classifyName(n, text, h)
	case "string_literal":
		return category.Str, true
	case "comment":
		return category.Comment, true
	default:
		return category.Invalid, false
	}
}

func (p clike) classifyName(n syntax.Node, text string, h History) (category.Kind, bool) {
	parent := n.Parent()
	if parent == nil {
		return category.Invalid, false
	}
	switch parent.Kind() {
	case "function_declarator", "qualified_identifier":
		// имя объявляемой функции остаётся как есть
		return category.Invalid, false
	case "sized_type_specifier":
		// "unsigned int", "unsigned INT32": the specifier is one type
		return category.Invalid, false
	}

	cat := category.Var
	switch parent.Kind() {
	case "call_expression", "preproc_function_def":
		cat = category.Func
	}

	switch n.Kind() {
	case "type_identifier", "primitive_type", "sized_type_specifier":
		cat = category.Type
	case "field_identifier":
		cat = category.Field
	case "statement_identifier":
		cat = category.Label
	case "number_literal":
		cat = category.Number
	case "char_literal":
		cat = category.Char
	}

	// function pointer called through a variable. Heuristic: the order of first
	// sight decides, earlier occurrences keep their category.
	if cat == category.Func && h.Has(category.Var, text) {
		cat = category.Var
	}
	// parser saw a type name in identifier position
	if cat == category.Var && h.Has(category.Type, text) {
		cat = category.Type
	}
	return cat, true
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
