package lang

import (
	"testing"

	"codeabs/internal/category"
	"codeabs/internal/syntax"
)

type fakeHistory map[category.Kind]map[string]bool

func (h fakeHistory) Has(cat category.Kind, text string) bool {
	return h[cat][text]
}

func (h fakeHistory) add(cat category.Kind, text string) fakeHistory {
	if h[cat] == nil {
		h[cat] = map[string]bool{}
	}
	h[cat][text] = true
	return h
}

type classifyCase struct {
	name string
	node *syntax.TreeNode
	hist fakeHistory
	want category.Kind
	ok   bool
}

func runClassify(t *testing.T, p Policy, src []byte, cases []classifyCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			hist := tt.hist
			if hist == nil {
				hist = fakeHistory{}
			}
			got, ok := p.Classify(tt.node, syntax.Text(tt.node, src), hist)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Classify(%s) = %v,%v want %v,%v", tt.node, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCLikeClassify(t *testing.T) {
	src := "unsigned int n; int f(int a) { /* c */ s.len = g(a) + 5 + 'x'; h(\"s\"); out: T y; }"
	b := syntax.NewBuilder([]byte(src))

	sizedInt := b.Text("primitive_type", "int", 9)
	sized := b.Node("sized_type_specifier", 0, 12, sizedInt)
	n := b.Text("identifier", "n", 0)
	fname := b.Text("identifier", "f", 16)
	b.Node("function_declarator", 20, 28, fname)
	comment := b.Text("comment", "/* c */", 0)
	field := b.Text("field_identifier", "len", 0)
	b.Node("field_expression", 40, 45, b.Text("identifier", "s", 38), field)
	g := b.Text("identifier", "g", 46)
	b.Node("call_expression", 48, 52, g)
	num := b.Text("number_literal", "5", 52)
	char := b.Text("char_literal", "'x'", 0)
	str := b.Text("string_literal", "\"s\"", 0)
	label := b.Text("statement_identifier", "out", 0)
	b.Node("labeled_statement", 70, 81, label)
	typ := b.Text("type_identifier", "T", 70)
	y := b.Text("identifier", "y", 70)
	b.Node("declaration", 0, len(src), sized, n, typ, y, num, char, str, comment)
	orphan := b.Text("identifier", "n", 0)
	sizedName := b.Text("type_identifier", "int", 9)
	b.Node("sized_type_specifier", 0, 12, sizedName)

	runClassify(t, C.Policy(), b.Source(), []classifyCase{
		{name: "sized type", node: sized, want: category.Type, ok: true},
		{name: "primitive inside sized type", node: sizedInt, ok: false},
		{name: "type name inside sized type", node: sizedName, ok: false},
		{name: "variable", node: n, want: category.Var, ok: true},
		{name: "declared function name", node: fname, ok: false},
		{name: "field", node: field, want: category.Field, ok: true},
		{name: "call target", node: g, want: category.Func, ok: true},
		{name: "call through variable", node: g, hist: fakeHistory{}.add(category.Var, "g"), want: category.Var, ok: true},
		{name: "number", node: num, want: category.Number, ok: true},
		{name: "char", node: char, want: category.Char, ok: true},
		{name: "string", node: str, want: category.Str, ok: true},
		{name: "comment", node: comment, want: category.Comment, ok: true},
		{name: "label", node: label, want: category.Label, ok: true},
		{name: "type", node: typ, want: category.Type, ok: true},
		{name: "identifier seen as type", node: y, hist: fakeHistory{}.add(category.Type, "y"), want: category.Type, ok: true},
		{name: "identifier seen as func stays var", node: y, hist: fakeHistory{}.add(category.Func, "y"), want: category.Var, ok: true},
		{name: "no parent", node: orphan, ok: false},
	})
}

func TestCLikeReserved(t *testing.T) {
	p := CPP.Policy()
	for _, w := range []string{"return", "sizeof", "struct", "unsigned", "while"} {
		if !p.Reserved(w) {
			t.Errorf("%q should be reserved", w)
		}
	}
	for _, w := range []string{"int", "char", "foo", "Return"} {
		if p.Reserved(w) {
			t.Errorf("%q should not be reserved", w)
		}
	}
}

func TestJavaClassify(t *testing.T) {
	src := "class A { void m() { @Ann int x = o.run(1); this.f = 'c'; l: x = \"s\"; B b; } }"
	b := syntax.NewBuilder([]byte(src))

	className := b.Text("identifier", "A", 0)
	b.Node("class_declaration", 0, len(src), className)
	methodName := b.Text("identifier", "m", 10)
	b.Node("method_declaration", 10, len(src)-2, methodName)
	ann := b.Text("identifier", "Ann", 0)
	b.Node("marker_annotation", 21, 25, ann)
	x := b.Text("identifier", "x", 30)
	obj := b.Text("identifier", "o", 33)
	run := b.Text("identifier", "run", 33)
	num := b.Text("decimal_integer_literal", "1", 33)
	b.Node("method_invocation", 34, 43, syntax.Field("object", obj), syntax.Field("name", run), b.Node("argument_list", 40, 43, num))
	fieldName := b.Text("identifier", "f", 45)
	b.Node("field_access", 45, 51, syntax.Field("field", fieldName))
	char := b.Text("character_literal", "'c'", 0)
	label := b.Text("identifier", "l", 58)
	b.Node("labeled_statement", 58, 70, label)
	str := b.Text("string_literal", "\"s\"", 0)
	typ := b.Text("type_identifier", "B", 0)
	b.Node("local_variable_declaration", 0, len(src), x, typ, str, char)

	runClassify(t, Java.Policy(), b.Source(), []classifyCase{
		{name: "class name", node: className, ok: false},
		{name: "method name", node: methodName, ok: false},
		{name: "annotation", node: ann, want: category.Annotation, ok: true},
		{name: "variable", node: x, want: category.Var, ok: true},
		{name: "invocation target", node: run, want: category.Func, ok: true},
		{name: "invocation receiver", node: obj, want: category.Var, ok: true},
		{name: "number", node: num, want: category.Number, ok: true},
		{name: "field access", node: fieldName, want: category.Field, ok: true},
		{name: "char", node: char, want: category.Char, ok: true},
		{name: "label", node: label, want: category.Label, ok: true},
		{name: "string", node: str, want: category.Str, ok: true},
		{name: "type", node: typ, want: category.Type, ok: true},
	})
}

