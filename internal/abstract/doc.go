// Package abstract replaces identifiers, literals and comments in a function's
// source text with canonical placeholder symbols (VAR_0, FUNC_1, /* COMMENT_0 */).
//
// Abstraction is split into two stages so that one parse serves any number of
// configurations:
//
//   - Classify walks a syntax tree once and records every abstractable
//     occurrence in an Index, while a Table assigns symbols per category in
//     first-seen order.
//   - Render rewrites the source against an Index and a Table, replacing only
//     the categories enabled in a category.Config.
//
// A Unit (Index plus Table) can be stored and re-rendered later without the
// original parser.
package abstract
