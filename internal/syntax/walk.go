package syntax

import "errors"

// SkipChildren, returned by a Visitor, moves the walk past the node's subtree.
// It is not an error: Walk does not return it.
var SkipChildren = errors.New("skip children")

// Visitor is called once per node in pre-order. Returning an error other than
// SkipChildren stops the walk.
type Visitor func(n Node) error

// Walk visits root and all of its descendants depth-first, pre-order:
// a node, then its first child, else its next sibling, else the next sibling of the
// nearest ancestor that has one. No node is visited twice.
func Walk(root Node, visit Visitor) error {
	if root == nil {
		return nil
	}
	c := NewCursor(root)
	if closer, ok := c.(interface{ Close() }); ok {
		defer closer.Close()
	}
	for {
		err := visit(c.Node())
		skip := errors.Is(err, SkipChildren)
		if err != nil && !skip {
			return err
		}
		if !skip && c.GoToFirstChild() {
			continue
		}
		if c.GoToNextSibling() {
			continue
		}
		for {
			if !c.GoToParent() {
				return nil
			}
			if c.GoToNextSibling() {
				break
			}
		}
	}
}

// Count returns the number of nodes reachable from root.
func Count(root Node) int {
	n := 0
	_ = Walk(root, func(Node) error { //nolint:errcheck
		n++
		return nil
	})
	return n
}
