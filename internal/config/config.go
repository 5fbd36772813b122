// Package config loads codeabs.toml, the project-level defaults for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"codeabs/internal/category"
	"codeabs/internal/trace"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "codeabs.toml"

var ErrInvalid = errors.New("invalid configuration")

// Config mirrors codeabs.toml.
type Config struct {
	Abstract AbstractConfig `toml:"abstract"`
	Batch    BatchConfig    `toml:"batch"`
	Trace    TraceConfig    `toml:"trace"`

	// Path is the file the values came from; empty for built-in defaults.
	Path string `toml:"-"`
}

type AbstractConfig struct {
	Enable []string `toml:"enable"`
}

type BatchConfig struct {
	Jobs     int      `toml:"jobs"`
	Timeout  Duration `toml:"timeout"`
	Cache    bool     `toml:"cache"`
	CacheDir string   `toml:"cache_dir"`
}

type TraceConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "0" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", s)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings used when no codeabs.toml exists.
func Default() Config {
	return Config{
		Abstract: AbstractConfig{Enable: names(category.Default())},
		Batch: BatchConfig{
			Timeout: Duration{30 * time.Second},
			Cache:   true,
		},
		Trace: TraceConfig{Level: trace.LevelOff.String()},
	}
}

func names(cfg category.Config) []string {
	var out []string
	for _, k := range category.All() {
		if cfg.Enabled(k) {
			out = append(out, k.String())
		}
	}
	return out
}

// Find walks from startDir up to the filesystem root looking for codeabs.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w: unknown key %q", path, ErrInvalid, undecoded[0].String())
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads codeabs.toml from startDir upwards, falling back to Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks category names, the trace level and batch limits.
func (c Config) Validate() error {
	if _, err := c.Categories(); err != nil {
		return err
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: [trace].level: %w", ErrInvalid, err)
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("%w: [batch].jobs must be >= 0", ErrInvalid)
	}
	return nil
}

// Categories resolves [abstract].enable.
func (c Config) Categories() (category.Config, error) {
	cfg, err := category.ParseNames(c.Abstract.Enable)
	if err != nil {
		return category.None(), fmt.Errorf("[abstract].enable: %w", err)
	}
	return cfg, nil
}

// Jobs returns the worker count, GOMAXPROCS when unset.
func (c Config) Jobs() int {
	if c.Batch.Jobs > 0 {
		return c.Batch.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// CacheDir returns [batch].cache_dir or $XDG_CACHE_HOME/codeabs (~/.cache/codeabs).
func (c Config) CacheDir() (string, error) {
	if c.Batch.CacheDir != "" {
		return c.Batch.CacheDir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "codeabs"), nil
}
