package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"codeabs/internal/category"
	"codeabs/internal/config"
	"codeabs/internal/driver"
	"codeabs/internal/lang"
	"codeabs/internal/observ"
)

var loadedConfig *config.Config

// loadConfig reads --config or discovers codeabs.toml once per process.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if loadedConfig != nil {
		return *loadedConfig, nil
	}
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err == nil {
			cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return config.Config{}, err
	}
	loadedConfig = &cfg
	return cfg, nil
}

// addEngineFlags registers the flags shared by abstract, render and dataset.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("enable", "", "comma-separated categories to substitute (default from codeabs.toml, else VAR,COMMENT)")
	cmd.Flags().String("lang", "", "force the language (c|cpp|java); default detects from the path")
	cmd.Flags().String("dump", "", "append original and abstracted text of every unit to this file")
}

// addBatchFlags registers worker pool and cache flags.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "concurrent workers (0 = codeabs.toml or GOMAXPROCS)")
	cmd.Flags().Duration("timeout", 0, "per-unit parse and classification limit (0 = codeabs.toml)")
	cmd.Flags().Bool("cache", false, "reuse classified units from the disk cache (default from codeabs.toml)")
	cmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/codeabs)")
}

// runSettings is everything a command needs after flags and codeabs.toml are merged.
type runSettings struct {
	cfg      config.Config
	opts     driver.Options
	timer    *observ.Timer
	timings  bool
	dumpFile *os.File
}

func (s *runSettings) close() {
	if s.dumpFile != nil {
		_ = s.dumpFile.Close()
	}
}

// loadSettings merges codeabs.toml with command flags. Flags win.
func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &runSettings{cfg: cfg, timer: observ.NewTimer()}

	cats, err := cfg.Categories()
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("enable"); f != nil && f.Changed {
		if cats, err = category.ParseEnableList(f.Value.String()); err != nil {
			return nil, fmt.Errorf("--enable: %w", err)
		}
	}
	s.opts.Categories = cats

	if f := cmd.Flags().Lookup("lang"); f != nil && f.Value.String() != "" {
		k, err := lang.Parse(f.Value.String())
		if err != nil {
			return nil, fmt.Errorf("--lang: %w", err)
		}
		s.opts.Lang = k
	}

	s.opts.Jobs = cfg.Jobs()
	if jobs, err := cmd.Flags().GetInt("jobs"); err == nil && jobs > 0 {
		s.opts.Jobs = jobs
	}
	s.opts.Timeout = cfg.Batch.Timeout.Duration
	if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil && timeout > 0 {
		s.opts.Timeout = timeout
	}

	if f := cmd.Flags().Lookup("cache"); f != nil {
		useCache := cfg.Batch.Cache
		if f.Changed {
			useCache, _ = cmd.Flags().GetBool("cache")
		}
		if useCache {
			if err := s.openCache(cmd); err != nil {
				return nil, err
			}
		}
	}

	if maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err == nil {
		s.opts.MaxDiagnostics = maxDiag
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return nil, err
	}
	s.opts.Timer = s.timer
	if s.opts.Heartbeat, err = cmd.Root().PersistentFlags().GetDuration("trace-heartbeat"); err != nil {
		return nil, err
	}

	if dump, _ := cmd.Flags().GetString("dump"); dump != "" {
		// #nosec G304 -- path is provided by the user
		f, err := os.OpenFile(dump, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("--dump: %w", err)
		}
		s.dumpFile = f
		s.opts.Dump = f
	}
	return s, nil
}

func (s *runSettings) openCache(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		var err error
		if dir, err = s.cfg.CacheDir(); err != nil {
			return err
		}
	}
	cache, err := driver.OpenCache(dir)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	s.opts.Cache = cache
	return nil
}

func (s *runSettings) printTimings(cmd *cobra.Command, total time.Duration) {
	if !s.timings {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	fmt.Fprintf(cmd.ErrOrStderr(), "  %-20s %9.2f ms\n", "wall", float64(total)/float64(time.Millisecond))
}
