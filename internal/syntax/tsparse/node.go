package tsparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codeabs/internal/source"
	"codeabs/internal/syntax"
)

// node adapts *sitter.Node to syntax.Node.
type node struct {
	n *sitter.Node
}

var (
	_ syntax.Node           = node{}
	_ syntax.CursorProvider = node{}
)

// wrap returns an untyped nil for absent nodes so callers can compare against nil.
func wrap(n *sitter.Node) syntax.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return node{n: n}
}

func (w node) Kind() string        { return w.n.Type() }
func (w node) Parent() syntax.Node { return wrap(w.n.Parent()) }
func (w node) ChildCount() int     { return int(w.n.ChildCount()) }

func (w node) Child(i int) syntax.Node {
	if i < 0 || i >= w.ChildCount() {
		return nil
	}
	return wrap(w.n.Child(i))
}

func (w node) ChildByField(name string) syntax.Node {
	return wrap(w.n.ChildByFieldName(name))
}

func (w node) StartByte() uint32 { return w.n.StartByte() }
func (w node) EndByte() uint32   { return w.n.EndByte() }

func (w node) StartPoint() source.Point {
	p := w.n.StartPoint()
	return source.Point{Row: p.Row, Column: p.Column}
}

func (w node) EndPoint() source.Point {
	p := w.n.EndPoint()
	return source.Point{Row: p.Row, Column: p.Column}
}

func (w node) IsError() bool   { return w.n.Type() == syntax.ErrorKind }
func (w node) IsMissing() bool { return w.n.IsMissing() }

// NewCursor hands the walk tree-sitter's own cursor.
func (w node) NewCursor() syntax.Cursor {
	return &cursor{c: sitter.NewTreeCursor(w.n)}
}

type cursor struct {
	c *sitter.TreeCursor
}

func (c *cursor) Node() syntax.Node     { return wrap(c.c.CurrentNode()) }
func (c *cursor) GoToFirstChild() bool  { return c.c.GoToFirstChild() }
func (c *cursor) GoToNextSibling() bool { return c.c.GoToNextSibling() }
func (c *cursor) GoToParent() bool      { return c.c.GoToParent() }
func (c *cursor) Close()                { c.c.Close() }
