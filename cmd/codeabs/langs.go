package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codeabs/internal/category"
	"codeabs/internal/lang"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List supported languages and abstraction categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LANGUAGE\tEXTENSIONS")
		for _, k := range lang.All() {
			exts := lang.Extensions(k)
			if k == lang.C || k == lang.CPP {
				exts = append(exts, ".h (detected)")
			}
			fmt.Fprintf(w, "%s\t%s\n", k, strings.Join(exts, " "))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout())
		w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tSYMBOL\tDEFAULT")
		def := category.Default()
		for _, k := range category.All() {
			mark := ""
			if def.Enabled(k) {
				mark = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", k, k.Symbol(0), mark)
		}
		return w.Flush()
	},
}
