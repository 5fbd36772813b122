package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codeabs/internal/driver"
)

var abstractCmd = &cobra.Command{
	Use:   "abstract [flags] [file...]",
	Short: "Abstract C, C++ or Java source files",
	Long: `Abstract replaces the enabled categories of each file with canonical
placeholders. Without files, or with "-", source is read from stdin and
--lang is required unless the content is a header that can be detected.`,
	RunE: runAbstract,
}

func init() {
	addEngineFlags(abstractCmd)
	addBatchFlags(abstractCmd)
	abstractCmd.Flags().String("format", "text", "output format (text|pretty|json|msgpack)")
	abstractCmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
}

func runAbstract(cmd *cobra.Command, args []string) error {
	started := time.Now()
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := readOutputFormat(formatFlag)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	var results []*driver.FileResult
	phase := s.timer.Begin("abstract")
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		res, err := driver.AbstractSource(cmd.Context(), "<stdin>", src, s.opts)
		printDiagnostics(cmd.ErrOrStderr(), res.Bag, s.opts.MaxDiagnostics)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		var batch *driver.BatchResult
		results, batch, err = driver.AbstractFiles(cmd.Context(), args, s.opts)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.ErrOrStderr(), batch.Bag, s.opts.MaxDiagnostics)
		if len(args) > 1 && !quiet(cmd) {
			fmt.Fprintln(cmd.ErrOrStderr(), batch.Stats.String())
		}
	}
	s.timer.End(phase, fmt.Sprintf("%d units", len(results)))

	out, closeOut, err := openOutput(cmd, format)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := writeResults(out, results, format, len(args) > 1); err != nil {
		return err
	}
	s.printTimings(cmd, time.Since(started))

	for _, res := range results {
		if res.Failed() {
			return errors.New("some units could not be abstracted")
		}
	}
	return nil
}

func openOutput(cmd *cobra.Command, format outputFormat) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("out")
	if path == "" || path == "-" {
		if format == formatMsgpack && isTerminal(os.Stdout) {
			return nil, nil, errors.New("refusing to write msgpack to a terminal; use --out")
		}
		return cmd.OutOrStdout(), func() {}, nil
	}
	// #nosec G304 -- path is provided by the user
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func writeResults(out io.Writer, results []*driver.FileResult, format outputFormat, headers bool) error {
	switch format {
	case formatJSON, formatMsgpack:
		payloads := make([]unitPayload, 0, len(results))
		for _, res := range results {
			if res.Failed() {
				continue
			}
			payloads = append(payloads, unitPayload{
				Path:        res.Path,
				Language:    res.Lang.String(),
				Abstract:    res.Text,
				SymbolTable: res.Unit,
				Partial:     res.Partial,
			})
		}
		if format == formatJSON {
			return writeJSONPayloads(out, payloads)
		}
		return writeMsgpackPayloads(out, payloads)
	case formatPretty:
		width := terminalWidth()
		for _, res := range results {
			if res.Failed() {
				continue
			}
			fmt.Fprintf(out, "%s\n", gutterColor.Sprintf("==> %s (%s) <==", res.Path, res.Lang))
			writeSideBySide(out, string(res.File.Content), res.Text, width)
		}
		return nil
	default:
		var buf bytes.Buffer
		for _, res := range results {
			if res.Failed() {
				continue
			}
			if headers {
				fmt.Fprintf(&buf, "==> %s <==\n", res.Path)
			}
			buf.WriteString(res.Text)
			if headers && len(res.Text) > 0 && res.Text[len(res.Text)-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
		_, err := out.Write(buf.Bytes())
		return err
	}
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}
