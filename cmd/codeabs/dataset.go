package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"codeabs/internal/dataset"
	"codeabs/internal/driver"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset [flags] FILE",
	Short: "Abstract every function of a MegaVul-style dataset",
	Long: `Dataset reads a JSON array or JSON-lines file of function records and
fills abstract_func*, abstract_symbol_table* for every func_before, func and
func_after present. Records that fail keep null abstraction fields; the run
carries on and reports them.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataset,
}

var datasetView progressView

func init() {
	addEngineFlags(datasetCmd)
	addBatchFlags(datasetCmd)
	datasetCmd.Flags().StringP("out", "o", "", "write the dataset to file instead of stdout")
	datasetCmd.Flags().Var(&datasetView, "ui", "progress UI (auto|on|off)")
	datasetCmd.Flags().Bool("strict", false, "exit with status 1 when any unit fails")
}

func runDataset(cmd *cobra.Command, args []string) error {
	started := time.Now()
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	phase := s.timer.Begin("read")
	ds, err := dataset.ReadFile(args[0])
	if err != nil {
		return err
	}
	s.timer.End(phase, fmt.Sprintf("%d records", len(ds.Records)))

	phase = s.timer.Begin("abstract")
	var batch *driver.BatchResult
	if datasetView.interactive(cmd.ErrOrStderr(), quiet(cmd)) {
		batch, err = runDatasetWithUI(cmd.Context(), ds, s.opts)
	} else {
		batch, err = driver.AbstractDataset(cmd.Context(), ds, s.opts)
	}
	s.timer.End(phase, fmt.Sprintf("%d units", ds.Units()))
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), batch.Bag, s.opts.MaxDiagnostics)
	if !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), batch.Stats.String())
	}

	phase = s.timer.Begin("write")
	err = writeDataset(cmd, ds)
	s.timer.End(phase, "")
	if err != nil {
		return err
	}
	s.printTimings(cmd, time.Since(started))

	if strict, _ := cmd.Flags().GetBool("strict"); strict && batch.Stats.Failed > 0 {
		return fmt.Errorf("%d units failed", batch.Stats.Failed)
	}
	return nil
}

// writeDataset writes to --out atomically, or to stdout. The layout follows
// the output extension when it names one.
func writeDataset(cmd *cobra.Command, ds *dataset.Dataset) error {
	path, _ := cmd.Flags().GetString("out")
	if path == "" || path == "-" {
		return ds.Write(cmd.OutOrStdout())
	}
	if layout := dataset.LayoutForPath(path); layout == dataset.LayoutLines {
		ds.Layout = layout
	}
	if err := ds.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !quiet(cmd) {
		fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(ds.Records), path)
	}
	return nil
}
