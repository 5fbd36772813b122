package lang

import (
	"codeabs/internal/category"
	"codeabs/internal/syntax"
)

// History answers whether text has already been recorded under a category
// while classifying the current function.
type History interface {
	Has(cat category.Kind, text string) bool
}

// Policy decides the category of a single syntax node.
//
// Classify sees the node, its source text and the classification history of
// the unit so far. It reports false when the node is not abstractable.
// Policies are stateless; everything they remember lives in History.
type Policy interface {
	Language() Kind
	Classify(n syntax.Node, text string, h History) (category.Kind, bool)
	// Reserved reports language keywords that must never be classified.
	Reserved(text string) bool
}
