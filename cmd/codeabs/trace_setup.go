package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codeabs/internal/trace"
)

func addTraceFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("trace", "", "trace output file (- for stderr; .ndjson/.jsonl selects NDJSON)")
	cmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|unit|debug); default from codeabs.toml")
	cmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	cmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	cmd.PersistentFlags().Duration("trace-heartbeat", 0, "report batch progress to the trace at this interval (0 disables)")
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned cleanup dumps the ring when the command failed.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if levelStr == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		levelStr = cfg.Trace.Level
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня означает phase
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	started := time.Now()

	cleanup := func(failed bool) {
		if ring := trace.Ring(tracer); ring != nil && (failed || mode == trace.ModeRing) {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: last events (%s)\n", time.Since(started).Round(time.Millisecond))
			if err := ring.Dump(cmd.ErrOrStderr(), format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
