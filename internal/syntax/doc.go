// Package syntax is the boundary between the abstraction engine and a parser.
//
// The engine only needs a read-only tree: node kind, parent, ordered children,
// byte and row/column spans. Node captures exactly that. Two producers exist:
//
//   - TreeNode/Builder: an in-memory tree, used by tests and by callers that
//     bring their own parser output.
//   - tsparse: tree-sitter grammars for C, C++ and Java.
//
// Walk implements the traversal discipline the classifier relies on: pre-order,
// depth-first, first child else next sibling else climb, with no revisits.
package syntax
