package syntax

// Cursor moves over a tree without revisiting nodes.
// It never climbs above the node it was created on.
type Cursor interface {
	Node() Node
	GoToFirstChild() bool
	GoToNextSibling() bool
	GoToParent() bool
}

// CursorProvider is implemented by nodes whose backing parser has a native cursor.
type CursorProvider interface {
	NewCursor() Cursor
}

// NewCursor returns the node's native cursor when it has one, otherwise a generic
// cursor driven by Child/ChildCount.
func NewCursor(root Node) Cursor {
	if p, ok := root.(CursorProvider); ok {
		return p.NewCursor()
	}
	return &nodeCursor{stack: []cursorFrame{{node: root, index: -1}}}
}

type cursorFrame struct {
	node  Node
	index int // позиция в родителе, -1 для корня
}

type nodeCursor struct {
	stack []cursorFrame
}

func (c *nodeCursor) Node() Node {
	return c.stack[len(c.stack)-1].node
}

func (c *nodeCursor) GoToFirstChild() bool {
	cur := c.Node()
	for i := 0; i < cur.ChildCount(); i++ {
		if child := cur.Child(i); child != nil {
			c.stack = append(c.stack, cursorFrame{node: child, index: i})
			return true
		}
	}
	return false
}

func (c *nodeCursor) GoToNextSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	top := c.stack[len(c.stack)-1]
	parent := c.stack[len(c.stack)-2].node
	for i := top.index + 1; i < parent.ChildCount(); i++ {
		if sib := parent.Child(i); sib != nil {
			c.stack[len(c.stack)-1] = cursorFrame{node: sib, index: i}
			return true
		}
	}
	return false
}

func (c *nodeCursor) GoToParent() bool {
	if len(c.stack) < 2 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}
