package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"codeabs/internal/source"
)

// ErrorKind is the node kind parsers use for unresolved input.
const ErrorKind = "ERROR"

// TreeNode is an in-memory Node. Trees are assembled with a Builder.
type TreeNode struct {
	kind     string
	span     source.Span
	start    source.Point
	end      source.Point
	parent   *TreeNode
	children []*TreeNode
	field    string
	missing  bool
}

var _ Node = (*TreeNode)(nil)

func (n *TreeNode) Kind() string { return n.kind }

func (n *TreeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *TreeNode) ChildCount() int { return len(n.children) }

func (n *TreeNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *TreeNode) ChildByField(name string) Node {
	for _, c := range n.children {
		if c.field == name {
			return c
		}
	}
	return nil
}

func (n *TreeNode) StartByte() uint32          { return n.span.Start }
func (n *TreeNode) EndByte() uint32            { return n.span.End }
func (n *TreeNode) StartPoint() source.Point   { return n.start }
func (n *TreeNode) EndPoint() source.Point     { return n.end }
func (n *TreeNode) IsError() bool              { return n.kind == ErrorKind }
func (n *TreeNode) IsMissing() bool            { return n.missing }
func (n *TreeNode) Span() source.Span          { return n.span }
func (n *TreeNode) Children() []*TreeNode      { return n.children }
func (n *TreeNode) String() string             { return fmt.Sprintf("%s@%s", n.kind, n.span) }
func (n *TreeNode) Field() string              { return n.field }
func (n *TreeNode) setParent(parent *TreeNode) { n.parent = parent }

// Builder assembles TreeNodes over one source text, resolving byte offsets into points.
type Builder struct {
	src   []byte
	lines []source.Line
}

// NewBuilder creates a builder for src.
func NewBuilder(src []byte) *Builder {
	return &Builder{src: src, lines: source.SplitLines(src)}
}

// Source returns the text the builder resolves against.
func (b *Builder) Source() []byte { return b.src }

// Node creates a node covering [start, end) and adopts children.
func (b *Builder) Node(kind string, start, end int, children ...*TreeNode) *TreeNode {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("node start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("node end overflow: %w", err))
	}
	if e < s || int(e) > len(b.src) {
		panic(fmt.Errorf("node %s span %d-%d outside source of %d bytes", kind, s, e, len(b.src)))
	}
	n := &TreeNode{
		kind:     kind,
		span:     source.Span{Start: s, End: e},
		start:    source.PointAt(b.lines, s),
		end:      source.PointAt(b.lines, e),
		children: children,
	}
	for _, c := range children {
		c.setParent(n)
	}
	return n
}

// Text creates a leaf node for the first occurrence of text at or after byte offset from.
// It panics when text is not found, which keeps hand-built test trees honest.
func (b *Builder) Text(kind, text string, from int) *TreeNode {
	idx := indexFrom(b.src, text, from)
	if idx < 0 {
		panic(fmt.Errorf("text %q not found after offset %d", text, from))
	}
	return b.Node(kind, idx, idx+len(text))
}

// Field tags child as the grammar field name of its parent.
func Field(name string, child *TreeNode) *TreeNode {
	child.field = name
	return child
}

// Missing marks n as a parser-inserted zero-width node.
func Missing(n *TreeNode) *TreeNode {
	n.missing = true
	return n
}

func indexFrom(src []byte, text string, from int) int {
	if from < 0 || from > len(src) {
		return -1
	}
	for i := from; i+len(text) <= len(src); i++ {
		if string(src[i:i+len(text)]) == text {
			return i
		}
	}
	return -1
}
