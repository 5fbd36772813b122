// Package tsparse parses C, C++ and Java with tree-sitter and exposes the
// result as syntax.Node values.
package tsparse
