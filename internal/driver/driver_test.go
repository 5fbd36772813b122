package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"codeabs/internal/category"
	"codeabs/internal/dataset"
	"codeabs/internal/diag"
	"codeabs/internal/lang"
	"codeabs/internal/observ"
	"codeabs/internal/trace"
	"codeabs/internal/ui"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	if bag == nil {
		return false
	}
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAbstractFileStripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.c", "\xEF\xBB\xBFint x = 5;")
	res, err := AbstractFile(context.Background(), path, Options{Categories: category.Default()})
	if err != nil {
		t.Fatalf("AbstractFile: %v", err)
	}
	if res.Text != "int VAR_0 = 5;" || res.Lang != lang.C {
		t.Fatalf("got %q (%s)", res.Text, res.Lang)
	}
	if res.Unit == nil || res.Unit.Index.Len() != 3 {
		t.Fatalf("unexpected unit %+v", res.Unit)
	}
}

func TestAbstractFileMissing(t *testing.T) {
	res, err := AbstractFile(context.Background(), filepath.Join(t.TempDir(), "nope.c"), Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !hasCode(res.Bag, diag.IOLoadFile) {
		t.Errorf("missing IOLoadFile diagnostic: %+v", res.Bag.Items())
	}
}

func TestAbstractSourceUnknownLanguage(t *testing.T) {
	res, err := AbstractSource(context.Background(), "notes.txt", []byte("x"), Options{})
	if err == nil || !res.Failed() {
		t.Fatalf("expected failure, got %v", err)
	}
	if !hasCode(res.Bag, diag.AbsUnknownLang) {
		t.Errorf("missing AbsUnknownLang: %+v", res.Bag.Items())
	}
}

func TestAbstractSourceForcedLanguageAndDump(t *testing.T) {
	var dump bytes.Buffer
	opts := Options{Categories: category.Of(category.Var), Lang: lang.C, Dump: &dump}
	res, err := AbstractSource(context.Background(), "<stdin>", []byte("int x = 5;"), opts)
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if res.Text != "int VAR_0 = 5;" {
		t.Fatalf("got %q", res.Text)
	}
	out := dump.String()
	if !strings.Contains(out, "int x = 5;\n"+abstractBanner+"\nint VAR_0 = 5;") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}

func TestPartialParseIsWarning(t *testing.T) {
	res, err := AbstractSource(context.Background(), "broken.c", []byte("int x = ;\nint y;"), Options{Categories: category.Default()})
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if !res.Partial || !hasCode(res.Bag, diag.ParsePartial) {
		t.Fatalf("expected partial parse, bag=%+v", res.Bag.Items())
	}
	if res.Bag.HasErrors() {
		t.Errorf("partial parse must not be an error")
	}
}

func TestRerenderStoredUnit(t *testing.T) {
	src := []byte("int f(int n) { return f(n - 1); }")
	res, err := AbstractSource(context.Background(), "f.c", src, Options{Categories: category.None()})
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if res.Text != string(src) {
		t.Fatalf("nothing enabled must be identity, got %q", res.Text)
	}
	text, err := Rerender(context.Background(), "f.c", src, res.Unit, category.Of(category.Func))
	if err != nil {
		t.Fatalf("Rerender: %v", err)
	}
	if text != "int f(int n) { return FUNC_0(n - 1); }" {
		t.Fatalf("got %q", text)
	}
	if _, err := Rerender(context.Background(), "f.c", []byte("void g(void) {}"), res.Unit, category.Every()); err == nil {
		t.Fatalf("expected error for mismatched source")
	} else if codeFor(err) != diag.AbsInconsistent {
		t.Errorf("codeFor(%v) = %s", err, codeFor(err).ID())
	}
}

func TestAbstractFilesBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.c", "int a = 1;"),
		filepath.Join(dir, "missing.c"),
		writeFile(t, dir, "b.java", "class B { int b; }"),
		writeFile(t, dir, "c.txt", "text"),
	}
	timer := observ.NewTimer()
	results, batch, err := AbstractFiles(context.Background(), paths, Options{Categories: category.Default(), Jobs: 2, Timer: timer})
	if err != nil {
		t.Fatalf("AbstractFiles: %v", err)
	}
	want := BatchStats{Total: 4, Succeeded: 2, Failed: 2}
	if batch.Stats != want {
		t.Fatalf("stats = %+v, want %+v", batch.Stats, want)
	}
	if results[0].Text != "int VAR_0 = 1;" {
		t.Errorf("a.c: %q", results[0].Text)
	}
	if !results[1].Failed() || !hasCode(results[1].Bag, diag.IOLoadFile) {
		t.Errorf("missing.c not reported")
	}
	if results[2].Lang != lang.Java || results[2].Failed() {
		t.Errorf("b.java: lang=%s failed=%v", results[2].Lang, results[2].Failed())
	}
	if !hasCode(batch.Bag, diag.AbsUnknownLang) {
		t.Errorf("c.txt not reported")
	}
	if r := timer.Report(); len(r.Units) == 0 {
		t.Errorf("timer saw no units")
	}
}

const datasetJSON = `[
  {"cve_id": "CVE-1", "file_path": "lib/a.c", "func_before": "int f(int n) {\n  // old\n  return n;\n}", "func": "int f(int n) {\n  return n + 1;\n}"},
  {"cve_id": "CVE-2", "language": "java", "func": "class A { void m() { int a = 1; } }"},
  {"cve_id": "CVE-3", "file_path": "README", "func": "whatever"}
]`

func TestAbstractDataset(t *testing.T) {
	ds, err := dataset.Read(strings.NewReader(datasetJSON))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var (
		mu     sync.Mutex
		events []ui.Event
	)
	opts := Options{
		Categories: category.Default(),
		Jobs:       3,
		Progress: func(ev ui.Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}
	batch, err := AbstractDataset(context.Background(), ds, opts)
	if err != nil {
		t.Fatalf("AbstractDataset: %v", err)
	}
	want := BatchStats{Total: 4, Succeeded: 3, Failed: 1}
	if batch.Stats != want {
		t.Fatalf("stats = %+v, want %+v", batch.Stats, want)
	}
	first := ds.Records[0]
	if got := first.Field("abstract_func_before"); got != "int f(int VAR_0) {\n  /* COMMENT_0 */\n  return VAR_0;\n}" {
		t.Errorf("abstract_func_before = %q", got)
	}
	if got := first.Field("abstract_func"); got != "int f(int VAR_0) {\n  return VAR_0 + 1;\n}" {
		t.Errorf("abstract_func = %q", got)
	}
	if ds.Records[2].Has("abstract_func") {
		t.Errorf("failed record must get null abstraction")
	}
	if !hasCode(batch.Bag, diag.AbsUnknownLang) {
		t.Errorf("unknown language not reported: %+v", batch.Bag.Items())
	}
	if len(events) != 6 {
		t.Errorf("expected 6 progress events, got %d", len(events))
	}

	// перерисовка из сохранённой таблицы
	rerender, err := RerenderDataset(context.Background(), ds, Options{Categories: category.Of(category.Number)})
	if err != nil {
		t.Fatalf("RerenderDataset: %v", err)
	}
	if rerender.Stats.Succeeded != 3 || rerender.Stats.Failed != 0 {
		t.Fatalf("rerender stats = %+v", rerender.Stats)
	}
	if got := first.Field("abstract_func"); got != "int f(int n) {\n  return n + NUMBER_0;\n}" {
		t.Errorf("rerendered abstract_func = %q", got)
	}
}

func TestAbstractDatasetCancelled(t *testing.T) {
	ds, err := dataset.Read(strings.NewReader(datasetJSON))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AbstractDataset(ctx, ds, Options{Categories: category.Default()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCacheHit(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	ds, err := dataset.Read(strings.NewReader(datasetJSON))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Categories: category.Default(), Cache: cache}
	first, err := AbstractDataset(context.Background(), ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.Cached != 0 {
		t.Fatalf("cold cache reported hits: %+v", first.Stats)
	}
	before := ds.Records[0].Field("abstract_func_before")

	ds2, _ := dataset.Read(strings.NewReader(datasetJSON))
	second, err := AbstractDataset(context.Background(), ds2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.Cached != 3 || second.Stats.Succeeded != 3 {
		t.Fatalf("warm cache stats = %+v", second.Stats)
	}
	if got := ds2.Records[0].Field("abstract_func_before"); got != before {
		t.Fatalf("cached unit renders %q, want %q", got, before)
	}
}

func TestBatchStatsString(t *testing.T) {
	s := BatchStats{Total: 4, Succeeded: 3, Failed: 1, Cached: 2}
	if got := s.String(); got != "abstracted 3/4 units [75.00%] (1 failed, 2 cached)" {
		t.Fatalf("String() = %q", got)
	}
	if (BatchStats{}).Rate() != 0 {
		t.Fatalf("empty rate")
	}
}

func TestStringWithLineContinuation(t *testing.T) {
	src := "char *s = \"a\\\r\nb\";\r\n"
	res, err := AbstractSource(context.Background(), "p.c", []byte(src), Options{Categories: category.Every()})
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if res.Failed() || res.Bag.HasErrors() {
		t.Fatalf("unit failed, bag=%+v", res.Bag.Items())
	}
	if !strings.Contains(res.Text, "STR_0") {
		t.Errorf("string not abstracted: %q", res.Text)
	}
	if got := strings.Count(res.Text, "\r\n"); got != 2 {
		t.Errorf("expected 2 CRLF line endings, got %d in %q", got, res.Text)
	}
}

func TestSizedTypeWithTypedefName(t *testing.T) {
	src := "void f(void) {\n    unsigned INT32 x = 1;\n    x++;\n}\n"
	res, err := AbstractSource(context.Background(), "p.c", []byte(src), Options{Categories: category.Every()})
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if res.Failed() || res.Bag.HasErrors() {
		t.Fatalf("unit failed, bag=%+v", res.Bag.Items())
	}
	for _, want := range []string{"VAR_0 = NUMBER_0;", "VAR_0++;"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("missing %q in %q", want, res.Text)
		}
	}
}

func TestHeaderDetectionIsTraced(t *testing.T) {
	ring := trace.NewRingTracer(4096, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	res, err := AbstractSource(ctx, "x.h", []byte("namespace a { int f(); }\n"), Options{Categories: category.Default()})
	if err != nil {
		t.Fatalf("AbstractSource: %v", err)
	}
	if res.Lang != lang.CPP {
		t.Fatalf("lang = %v", res.Lang)
	}
	for _, ev := range ring.Snapshot() {
		if ev.Name != "detect" {
			continue
		}
		if ev.Unit != "x.h" || !strings.Contains(ev.Detail, "c++ keyword `namespace` +6 at [0,9)") {
			t.Fatalf("unexpected detect event %+v", ev)
		}
		return
	}
	t.Fatalf("no detect event recorded")
}
