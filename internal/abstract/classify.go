package abstract

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"codeabs/internal/category"
	"codeabs/internal/lang"
	"codeabs/internal/syntax"
)

// cancelCheckEvery is how many nodes the walk visits between context checks.
const cancelCheckEvery = 1024

// classifyContext is the mutable state of one classification pass.
// It is threaded through the visitor explicitly.
type classifyContext struct {
	ctx     context.Context
	src     []byte
	policy  lang.Policy
	index   *Index
	table   *Table
	nextID  int
	visited int
}

func (c *classifyContext) visit(n syntax.Node) error {
	c.visited++
	if c.visited%cancelCheckEvery == 0 {
		if err := c.ctx.Err(); err != nil {
			return err
		}
	}
	if n.IsError() || n.IsMissing() || n.EndByte() <= n.StartByte() {
		return nil
	}
	text := syntax.Text(n, c.src)
	if text == "" || c.policy.Reserved(text) {
		return nil
	}
	cat, ok := c.policy.Classify(n, text, c.table)
	if !ok {
		return nil
	}
	if !cat.Valid() {
		return fmt.Errorf("%s policy on %s: %w", c.policy.Language(), n.Kind(), category.ErrUnknownCategory)
	}
	if err := c.record(n, cat, text); err != nil {
		return err
	}
	// узлы внутри записанного токена (части строки, ERROR-восстановление) не классифицируются
	return syntax.SkipChildren
}

func (c *classifyContext) record(n syntax.Node, cat category.Kind, text string) error {
	start := n.StartPoint()
	parts := physicalLines(text)
	if len(parts) == 1 {
		c.table.Intern(cat, parts[0])
		return c.index.Record(Occurrence{
			Line:     start.Row,
			Column:   start.Column,
			Category: cat,
			ID:       NoOccurrence,
			Text:     parts[0],
		})
	}

	id := c.nextID
	c.nextID++
	keys := make([]string, len(parts))
	for i, part := range parts {
		keys[i] = Key(part, id)
	}
	c.table.InternGroup(cat, keys)

	for i, part := range parts {
		offset, err := safecast.Conv[uint32](i)
		if err != nil {
			return fmt.Errorf("line offset overflow: %w", err)
		}
		occ := Occurrence{
			Line:         start.Row + offset,
			Category:     cat,
			ID:           id,
			Continuation: i > 0,
			Text:         part,
		}
		if i == 0 {
			occ.Column = start.Column
		}
		if err := c.index.Record(occ); err != nil {
			return err
		}
	}
	return nil
}

// physicalLines splits node text on '\n'. A '\r' before the break belongs to the
// line terminator and is dropped, as is the empty tail after a final newline.
func physicalLines(text string) []string {
	parts := strings.Split(text, "\n")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
