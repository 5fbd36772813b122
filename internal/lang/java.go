package lang

import (
	"codeabs/internal/category"
	"codeabs/internal/syntax"
)

// java classifies tree-sitter-java trees.
// Primitive types (integral_type, floating_point_type, boolean_type) are never abstracted.
type java struct{}

var javaKeywords = keywordSet(
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while",
	"true", "false", "null",
)

func (java) Language() Kind { return Java }

func (java) Reserved(text string) bool {
	_, ok := javaKeywords[text]
	return ok
}

func (p java) Classify(n syntax.Node, text string, h History) (category.Kind, bool) {
	switch n.Kind() {
	case "identifier", "type_identifier":
		return p.classifyName(n)
	case "string_literal":
		return category.Str, true
	case "block_comment", "line_comment":
		return category.Comment, true
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal":
		return category.Number, true
	case "character_literal":
		return category.Char, true
	default:
		return category.Invalid, false
	}
}

func (java) classifyName(n syntax.Node) (category.Kind, bool) {
	parent := n.Parent()
	if parent == nil {
		return category.Invalid, false
	}
	switch parent.Kind() {
	case "method_declaration", "class_declaration", "constructor_declaration":
		return category.Invalid, false
	case "method_invocation":
		if syntax.Same(parent.ChildByField("name"), n) {
			return category.Func, true
		}
	}
	switch {
	case n.Kind() == "type_identifier":
		return category.Type, true
	case parent.Kind() == "labeled_statement":
		return category.Label, true
	case parent.Kind() == "field_access" && syntax.Same(parent.ChildByField("field"), n):
		return category.Field, true
	case parent.Kind() == "annotation" || parent.Kind() == "marker_annotation":
		return category.Annotation, true
	default:
		return category.Var, true
	}
}
