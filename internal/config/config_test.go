package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeabs/internal/category"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[abstract]
enable = ["VAR", "FUNC", "STRING"]

[batch]
jobs = 3
timeout = "1m30s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cats, err := cfg.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if want := category.Of(category.Var, category.Func, category.Str); cats != want {
		t.Errorf("Categories = %s, want %s", cats, want)
	}
	if cfg.Jobs() != 3 || cfg.Batch.Timeout.Duration != 90*time.Second {
		t.Errorf("batch = %+v", cfg.Batch)
	}
	if !cfg.Batch.Cache {
		t.Errorf("cache default lost")
	}
	if cfg.Trace.Level != "off" || cfg.Path != path {
		t.Errorf("trace=%q path=%q", cfg.Trace.Level, cfg.Path)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown category", "[abstract]\nenable = [\"MACRO\"]\n", category.ErrUnknownCategory},
		{"unknown key", "[batch]\nworkers = 4\n", ErrInvalid},
		{"bad level", "[trace]\nlevel = \"loud\"\n", ErrInvalid},
		{"negative jobs", "[batch]\njobs = -1\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			if _, err := Load(path); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[batch]\ntimeout = \"soon\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bad timeout")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	cats, err := cfg.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if cats != category.Default() {
		t.Errorf("default categories = %s", cats)
	}
	if cfg.Jobs() < 1 {
		t.Errorf("Jobs() = %d", cfg.Jobs())
	}
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/tmp/xdg", "codeabs") {
		t.Errorf("CacheDir = %q", dir)
	}
}
