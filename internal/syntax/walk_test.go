package syntax

import (
	"errors"
	"strings"
	"testing"
)

func buildSample() (*Builder, *TreeNode) {
	src := "int f(int a) { return g(a); }"
	b := NewBuilder([]byte(src))
	root := b.Node("translation_unit", 0, len(src),
		b.Node("function_definition", 0, len(src),
			b.Text("primitive_type", "int", 0),
			b.Node("function_declarator", 4, 12,
				Field("declarator", b.Text("identifier", "f", 4)),
				b.Node("parameter_list", 5, 12,
					b.Node("parameter_declaration", 6, 11,
						b.Text("primitive_type", "int", 6),
						b.Text("identifier", "a", 10),
					),
				),
			),
			b.Node("compound_statement", 13, len(src),
				b.Node("return_statement", 15, 27,
					b.Node("call_expression", 22, 26,
						Field("function", b.Text("identifier", "g", 22)),
						b.Node("argument_list", 23, 26,
							b.Text("identifier", "a", 24),
						),
					),
				),
			),
		),
	)
	return b, root
}

func TestWalkPreOrder(t *testing.T) {
	b, root := buildSample()
	var kinds []string
	err := Walk(root, func(n Node) error {
		kinds = append(kinds, n.Kind()+":"+Text(n, b.Source()))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := strings.Join(kinds, " ")
	want := "translation_unit:int f(int a) { return g(a); } " +
		"function_definition:int f(int a) { return g(a); } " +
		"primitive_type:int " +
		"function_declarator:f(int a) " +
		"identifier:f " +
		"parameter_list:(int a) " +
		"parameter_declaration:int a " +
		"primitive_type:int " +
		"identifier:a " +
		"compound_statement:{ return g(a); } " +
		"return_statement:return g(a); " +
		"call_expression:g(a) " +
		"identifier:g " +
		"argument_list:(a) " +
		"identifier:a"
	if got != want {
		t.Fatalf("unexpected order:\n got: %s\nwant: %s", got, want)
	}
}

func TestWalkVisitsEachNodeOnce(t *testing.T) {
	_, root := buildSample()
	seen := map[*TreeNode]int{}
	_ = Walk(root, func(n Node) error { //nolint:errcheck
		seen[n.(*TreeNode)]++
		return nil
	})
	for n, c := range seen {
		if c != 1 {
			t.Errorf("%s visited %d times", n, c)
		}
	}
	if Count(root) != 15 {
		t.Errorf("Count = %d, want 15", Count(root))
	}
}

func TestWalkStopsOnError(t *testing.T) {
	_, root := buildSample()
	stop := errors.New("stop")
	visited := 0
	err := Walk(root, func(n Node) error {
		visited++
		if n.Kind() == "function_declarator" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if visited != 4 {
		t.Errorf("expected walk to stop after 4 nodes, visited %d", visited)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	_, root := buildSample()
	var kinds []string
	err := Walk(root, func(n Node) error {
		kinds = append(kinds, n.Kind())
		if n.Kind() == "function_declarator" || n.Kind() == "call_expression" {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("SkipChildren leaked out of Walk: %v", err)
	}
	got := strings.Join(kinds, " ")
	want := "translation_unit function_definition primitive_type function_declarator " +
		"compound_statement return_statement call_expression"
	if got != want {
		t.Fatalf("unexpected order:\n got: %s\nwant: %s", got, want)
	}
}

func TestWalkSkipRoot(t *testing.T) {
	_, root := buildSample()
	visited := 0
	err := Walk(root, func(Node) error {
		visited++
		return SkipChildren
	})
	if err != nil || visited != 1 {
		t.Fatalf("visited %d nodes, err %v", visited, err)
	}
}

func TestWalkSubtreeDoesNotEscape(t *testing.T) {
	_, root := buildSample()
	decl := root.Children()[0].Children()[1]
	if Count(decl) != 6 {
		t.Errorf("subtree walk escaped its root: %d nodes", Count(decl))
	}
}

func TestBuilderPointsAndParents(t *testing.T) {
	src := "/* a\nb */ x"
	b := NewBuilder([]byte(src))
	comment := b.Text("comment", "/* a\nb */", 0)
	x := b.Text("identifier", "x", 0)
	root := b.Node("translation_unit", 0, len(src), comment, x)

	if comment.StartPoint().Row != 0 || comment.EndPoint().Row != 1 || comment.EndPoint().Column != 4 {
		t.Errorf("unexpected comment points %+v %+v", comment.StartPoint(), comment.EndPoint())
	}
	if x.StartPoint().Row != 1 || x.StartPoint().Column != 5 {
		t.Errorf("unexpected x point %+v", x.StartPoint())
	}
	if root.Parent() != nil {
		t.Errorf("root parent must be untyped nil")
	}
	if ParentKind(x) != "translation_unit" {
		t.Errorf("ParentKind(x) = %q", ParentKind(x))
	}
	if !Same(root.Child(1), x) {
		t.Errorf("Same should match the same node")
	}
}

func TestChildByField(t *testing.T) {
	_, root := buildSample()
	call := root.Children()[0].Children()[2].Children()[0].Children()[0]
	fn := call.ChildByField("function")
	if fn == nil || fn.Kind() != "identifier" {
		t.Fatalf("expected function field, got %v", fn)
	}
	if call.ChildByField("nope") != nil {
		t.Errorf("unknown field must be nil")
	}
}
