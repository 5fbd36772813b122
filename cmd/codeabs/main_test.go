package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"codeabs/internal/dataset"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.ExecuteContext(context.Background())
	traceCleanup(err != nil)
	traceCleanup = func(bool) {}
	return out.String(), errOut.String(), err
}

// Команды используют общий rootCmd, поэтому сценарий идёт одним тестом.
func TestCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "codeabs.toml")
	if err := os.WriteFile(cfgPath, []byte("[batch]\ncache = false\njobs = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	global := []string{"--config", cfgPath, "--color", "off", "--quiet"}

	t.Run("abstract stdin", func(t *testing.T) {
		args := append(append([]string{}, global...), "abstract", "--lang", "c", "--enable", "VAR,FUNC")
		out, _, err := runCLI(t, "int f(int n) { return f(n - 1); }", args...)
		if err != nil {
			t.Fatalf("abstract: %v", err)
		}
		if out != "int f(int VAR_0) { return FUNC_0(VAR_0 - 1); }" {
			t.Fatalf("got %q", out)
		}
	})

	srcPath := filepath.Join(dir, "a.c")
	src := "int add(int a, int b) {\n    /* sum */\n    return a + b;\n}\n"
	if err := os.WriteFile(srcPath, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	tablePath := filepath.Join(dir, "a.json")

	t.Run("abstract json then render", func(t *testing.T) {
		args := append(append([]string{}, global...), "abstract", "--format", "json", "--out", tablePath, "--enable", "VAR,COMMENT", srcPath)
		if _, _, err := runCLI(t, "", args...); err != nil {
			t.Fatalf("abstract: %v", err)
		}
		args = append(append([]string{}, global...), "render", "--table", tablePath, "--enable", "COMMENT", srcPath)
		out, _, err := runCLI(t, "", args...)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		want := "int add(int a, int b) {\n    /* COMMENT_0 */\n    return a + b;\n}\n"
		if out != want {
			t.Fatalf("render got %q, want %q", out, want)
		}
	})

	t.Run("dataset", func(t *testing.T) {
		in := filepath.Join(dir, "in.json")
		outPath := filepath.Join(dir, "out.json")
		body := `[{"file_path": "x.c", "func": "int g(int v) { return v; }"}, {"language": "java", "func": "class A { int a; }"}]`
		if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		args := append(append([]string{}, global...), "dataset", "--ui", "off", "-o", outPath, in)
		if _, _, err := runCLI(t, "", args...); err != nil {
			t.Fatalf("dataset: %v", err)
		}
		ds, err := dataset.ReadFile(outPath)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if got := ds.Records[0].Field("abstract_func"); got != "int g(int VAR_0) { return VAR_0; }" {
			t.Errorf("abstract_func = %q", got)
		}
		if !ds.Records[1].Has("abstract_symbol_table") {
			t.Errorf("java record has no symbol table")
		}
	})

	t.Run("langs", func(t *testing.T) {
		out, _, err := runCLI(t, "", append(append([]string{}, global...), "langs")...)
		if err != nil {
			t.Fatalf("langs: %v", err)
		}
		for _, want := range []string{"java", ".java", "ANNOTATION", "/* COMMENT_0 */"} {
			if !strings.Contains(out, want) {
				t.Errorf("langs output misses %q:\n%s", want, out)
			}
		}
	})
}

func TestReadModes(t *testing.T) {
	if f, err := readOutputFormat("JSON"); err != nil || f != formatJSON {
		t.Errorf("readOutputFormat(JSON) = %q, %v", f, err)
	}
	if _, err := readOutputFormat("xml"); err == nil {
		t.Errorf("expected error for xml")
	}
	var v progressView
	if err := v.Set(" On "); err != nil || v != viewTUI {
		t.Errorf("Set(On) = %v, %v", v, err)
	}
	if err := v.Set("maybe"); err == nil || v != viewTUI {
		t.Errorf("bad value must fail and keep %v, got %v, %v", viewTUI, v, err)
	}
	var buf bytes.Buffer
	tests := []struct {
		view  progressView
		quiet bool
		want  bool
	}{
		{viewTUI, false, true},
		{viewTUI, true, false},
		{viewPlain, false, false},
		{viewAuto, false, false}, // not a terminal
	}
	for _, tt := range tests {
		if got := tt.view.interactive(&buf, tt.quiet); got != tt.want {
			t.Errorf("%v.interactive(quiet=%v) = %v", tt.view, tt.quiet, got)
		}
	}
}

func TestSideBySide(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	writeSideBySide(&buf, "int x;\r\n\tx++;\r\n", "int VAR_0;\r\n\tVAR_0++;\r\n", 80)
	want := "int x;   │ int VAR_0;\n    x++; │     VAR_0++;\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestHighlightSymbolsMatches(t *testing.T) {
	got := symbolRe.FindAllString("VAR_0 = FUNC_12(/* COMMENT_3 */ VARX_1, NUMBER_0)", -1)
	want := []string{"VAR_0", "FUNC_12", "/* COMMENT_3 */", "NUMBER_0"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("matches = %v, want %v", got, want)
	}
}
