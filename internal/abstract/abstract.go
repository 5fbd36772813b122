package abstract

import (
	"context"
	"errors"

	"codeabs/internal/category"
	"codeabs/internal/lang"
	"codeabs/internal/syntax"
)

var errNoPolicy = errors.New("no classification policy")

// Unit is a classified function: everything needed to render it under any configuration.
type Unit struct {
	Lang  lang.Kind
	Index *Index
	Table *Table
}

// Result is a rendered unit.
type Result struct {
	Text  string
	Index *Index
	Table *Table
}

// Classify walks root once and records every abstractable occurrence.
func Classify(src []byte, root syntax.Node, policy lang.Policy) (*Unit, error) {
	return ClassifyContext(context.Background(), src, root, policy)
}

// ClassifyContext is Classify with cancellation checked during the walk.
func ClassifyContext(ctx context.Context, src []byte, root syntax.Node, policy lang.Policy) (*Unit, error) {
	if policy == nil {
		return nil, errNoPolicy
	}
	c := &classifyContext{
		ctx:    ctx,
		src:    src,
		policy: policy,
		index:  NewIndex(),
		table:  NewTable(),
	}
	if err := syntax.Walk(root, c.visit); err != nil {
		return nil, err
	}
	return &Unit{Lang: policy.Language(), Index: c.index, Table: c.table}, nil
}

// Render re-renders a classified unit without re-parsing.
func (u *Unit) Render(src []byte, cfg category.Config) (string, error) {
	return Render(src, u.Index, u.Table, cfg)
}

// Abstract classifies root and renders src with cfg.
func Abstract(src []byte, root syntax.Node, policy lang.Policy, cfg category.Config) (*Result, error) {
	return AbstractContext(context.Background(), src, root, policy, cfg)
}

// AbstractContext is Abstract with cancellation checked during classification.
func AbstractContext(ctx context.Context, src []byte, root syntax.Node, policy lang.Policy, cfg category.Config) (*Result, error) {
	unit, err := ClassifyContext(ctx, src, root, policy)
	if err != nil {
		return nil, err
	}
	text, err := unit.Render(src, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Index: unit.Index, Table: unit.Table}, nil
}
