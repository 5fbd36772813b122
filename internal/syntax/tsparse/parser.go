package tsparse

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"

	"codeabs/internal/lang"
	"codeabs/internal/syntax"
)

// ErrUnsupported is returned for languages without a bundled grammar.
var ErrUnsupported = errors.New("no grammar for language")

// Tree is a parsed unit. Nodes obtained from Root stay valid until Close.
type Tree struct {
	Lang lang.Kind
	Root syntax.Node
	tree *sitter.Tree
}

// HasError reports whether the parser had to recover from malformed input.
// Such trees are still usable; unresolved regions are never classified.
func (t *Tree) HasError() bool {
	if t == nil || t.tree == nil {
		return false
	}
	return t.tree.RootNode().HasError()
}

// Close releases the native tree.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

func grammar(k lang.Kind) (*sitter.Language, error) {
	switch k {
	case lang.C:
		return c.GetLanguage(), nil
	case lang.CPP:
		return cpp.GetLanguage(), nil
	case lang.Java:
		return java.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, k)
	}
}

// Parser keeps one tree-sitter parser per language. It is not safe for
// concurrent use; batch workers each own one.
type Parser struct {
	parsers map[lang.Kind]*sitter.Parser
}

// NewParser creates an empty parser set; grammars load on first use.
func NewParser() *Parser {
	return &Parser{parsers: make(map[lang.Kind]*sitter.Parser, 3)}
}

// Parse parses src as language k.
func (p *Parser) Parse(ctx context.Context, k lang.Kind, src []byte) (*Tree, error) {
	sp, ok := p.parsers[k]
	if !ok {
		g, err := grammar(k)
		if err != nil {
			return nil, err
		}
		sp = sitter.NewParser()
		sp.SetLanguage(g)
		p.parsers[k] = sp
	}
	tree, err := sp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", k, err)
	}
	return &Tree{Lang: k, Root: wrap(tree.RootNode()), tree: tree}, nil
}

// Close releases every native parser.
func (p *Parser) Close() {
	for k, sp := range p.parsers {
		sp.Close()
		delete(p.parsers, k)
	}
}

// Parse is a one-shot convenience around Parser.
func Parse(ctx context.Context, k lang.Kind, src []byte) (*Tree, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(ctx, k, src)
}
