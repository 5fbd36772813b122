package syntax

import (
	"codeabs/internal/source"
)

// Node is the read-only view of a parsed syntax node the engine consumes.
// Implementations must return an untyped nil (not a typed nil pointer) for absent nodes.
type Node interface {
	// Kind is the grammar node type, e.g. "identifier" or "comment".
	Kind() string
	// Parent returns nil for the root.
	Parent() Node
	ChildCount() int
	Child(i int) Node
	// ChildByField returns the child stored under a grammar field name, or nil.
	ChildByField(name string) Node

	StartByte() uint32
	EndByte() uint32
	StartPoint() source.Point
	EndPoint() source.Point

	// IsError reports a node the parser could not resolve.
	IsError() bool
	// IsMissing reports a zero-width node the parser inserted for recovery.
	IsMissing() bool
}

// Text returns the source bytes covered by n. Out of range spans yield "".
func Text(n Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if end < start || int(end) > len(src) {
		return ""
	}
	return string(src[start:end])
}

// Same reports whether a and b denote the same node position and kind.
// Adapters may hand out fresh wrappers for one node, so identity is positional.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() &&
		a.Kind() == b.Kind()
}

// ParentKind returns the kind of n's parent, or "" for the root.
func ParentKind(n Node) string {
	if n == nil {
		return ""
	}
	p := n.Parent()
	if p == nil {
		return ""
	}
	return p.Kind()
}
