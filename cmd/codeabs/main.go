package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codeabs/internal/diag"
	"codeabs/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codeabs",
	Short: "Source code abstraction for vulnerability datasets",
	Long: `codeabs replaces identifiers, literals and comments of C, C++ and Java
functions with canonical placeholders (VAR_0, FUNC_1, /* COMMENT_0 */ ...)
and records where every placeholder came from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		sevFlag, err := cmd.Root().PersistentFlags().GetString("min-severity")
		if err != nil {
			return err
		}
		if minSeverity, err = diag.ParseSeverity(sevFlag); err != nil {
			return fmt.Errorf("--min-severity: %w", err)
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
}

var traceCleanup = func(bool) {}

func init() {
	rootCmd.AddCommand(abstractCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(langsCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("min-severity", "warning", "lowest diagnostic severity to show (info|warning|error)")
	rootCmd.PersistentFlags().String("config", "", "path to codeabs.toml (default: search from the working directory up)")
	addTraceFlags(rootCmd)
}

// main sets the command version and executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	err := rootCmd.ExecuteContext(context.Background())
	traceCleanup(err != nil)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func setupColor(cmd *cobra.Command) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	return nil
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
