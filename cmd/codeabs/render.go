package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"codeabs/internal/abstract"
	"codeabs/internal/dataset"
	"codeabs/internal/driver"
)

var renderCmd = &cobra.Command{
	Use:   "render --table TABLE SOURCE | render --dataset FILE",
	Short: "Re-render stored abstractions with another category selection",
	Long: `Render applies a stored symbol table (position_map + abstract_table) to
its original source without parsing it again. With --dataset every stored
abstract_symbol_table* of a dataset is re-rendered and the abstract_func*
fields are rewritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	addEngineFlags(renderCmd)
	renderCmd.Flags().String("table", "", "symbol table file (.json, or .mp/.msgpack as written by abstract --format msgpack)")
	renderCmd.Flags().String("dataset", "", "dataset file whose stored tables are re-rendered")
	renderCmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	started := time.Now()
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if path, _ := cmd.Flags().GetString("dataset"); path != "" {
		return renderDataset(cmd, s, path, started)
	}

	tablePath, _ := cmd.Flags().GetString("table")
	if tablePath == "" || len(args) != 1 {
		return errors.New("render needs --table TABLE SOURCE or --dataset FILE")
	}
	unit, err := readTable(tablePath)
	if err != nil {
		return err
	}
	// #nosec G304 -- path is provided by the user
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	phase := s.timer.Begin("render")
	text, err := driver.Rerender(cmd.Context(), args[0], src, unit, s.opts.Categories)
	s.timer.End(phase, "")
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput(cmd, formatText)
	if err != nil {
		return err
	}
	defer closeOut()
	if _, err := fmt.Fprint(out, text); err != nil {
		return err
	}
	if s.opts.Dump != nil {
		fmt.Fprintf(s.opts.Dump, "---- %s ----\n%s\n", args[0], text)
	}
	s.printTimings(cmd, time.Since(started))
	return nil
}

// readTable loads a bare unit or a unitPayload as written by `abstract --format json|msgpack`.
func readTable(path string) (*abstract.Unit, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		var payload unitPayload
		if err := msgpack.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if payload.SymbolTable == nil {
			return nil, fmt.Errorf("%s: no abstract_symbol_table", path)
		}
		return payload.SymbolTable, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw, ok := probe["abstract_symbol_table"]; ok {
		data = raw
	}
	var unit abstract.Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &unit, nil
}

func renderDataset(cmd *cobra.Command, s *runSettings, path string, started time.Time) error {
	phase := s.timer.Begin("read")
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	s.timer.End(phase, fmt.Sprintf("%d records", len(ds.Records)))

	phase = s.timer.Begin("render")
	batch, err := driver.RerenderDataset(cmd.Context(), ds, s.opts)
	s.timer.End(phase, "")
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), batch.Bag, s.opts.MaxDiagnostics)
	if !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), batch.Stats.String())
	}
	if err := writeDataset(cmd, ds); err != nil {
		return err
	}
	s.printTimings(cmd, time.Since(started))
	return nil
}
