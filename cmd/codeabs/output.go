package main

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"codeabs/internal/abstract"
	"codeabs/internal/category"
	"codeabs/internal/diag"
)

type outputFormat string

const (
	formatText    outputFormat = "text"
	formatPretty  outputFormat = "pretty"
	formatJSON    outputFormat = "json"
	formatMsgpack outputFormat = "msgpack"
)

func readOutputFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatText, formatPretty, formatJSON, formatMsgpack:
		return f, nil
	case "":
		return formatText, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text, pretty, json or msgpack)", value)
	}
}

// unitPayload is the json/msgpack shape of one abstracted file, named after
// the dataset fields.
type unitPayload struct {
	Path        string         `json:"file_path" msgpack:"file_path"`
	Language    string         `json:"language" msgpack:"language"`
	Abstract    string         `json:"abstract_func" msgpack:"abstract_func"`
	SymbolTable *abstract.Unit `json:"abstract_symbol_table" msgpack:"abstract_symbol_table"`
	Partial     bool           `json:"partial,omitempty" msgpack:"partial,omitempty"`
}

func writeJSONPayloads(out io.Writer, payloads []unitPayload) error {
	enc := json.NewEncoder(out)
	for i := range payloads {
		if err := enc.Encode(&payloads[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeMsgpackPayloads(out io.Writer, payloads []unitPayload) error {
	enc := msgpack.NewEncoder(out)
	for i := range payloads {
		if err := enc.Encode(&payloads[i]); err != nil {
			return err
		}
	}
	return nil
}

var (
	symbolColor  = color.New(color.FgCyan, color.Bold)
	commentColor = color.New(color.FgGreen)
	gutterColor  = color.New(color.FgHiBlack)
	symbolRe     = regexp.MustCompile(`/\* COMMENT_\d+ \*/|\b(?:` + strings.Join(category.Names(), "|") + `)_\d+\b`)
)

func highlightSymbols(line string) string {
	if color.NoColor {
		return line
	}
	return symbolRe.ReplaceAllStringFunc(line, func(sym string) string {
		if strings.HasPrefix(sym, "/*") {
			return commentColor.Sprint(sym)
		}
		return symbolColor.Sprint(sym)
	})
}

// writeSideBySide prints the original and the abstraction in two columns.
// Both texts have the same number of lines.
func writeSideBySide(out io.Writer, original, abstracted string, width int) {
	left := splitDisplayLines(original)
	right := splitDisplayLines(abstracted)
	column := 0
	for _, l := range left {
		column = max(column, runewidth.StringWidth(l))
	}
	if limit := (width - 3) / 2; limit > 10 && column > limit {
		column = limit
	}
	for i := 0; i < max(len(left), len(right)); i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		l = runewidth.FillRight(runewidth.Truncate(l, column, "…"), column)
		fmt.Fprintf(out, "%s %s %s\n", l, gutterColor.Sprint("│"), highlightSymbols(r))
	}
}

func splitDisplayLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
)

// minSeverity hides diagnostics below --min-severity.
var minSeverity = diag.SevWarning

// printDiagnostics writes up to limit diagnostics in short form.
func printDiagnostics(out io.Writer, bag *diag.Bag, limit int) {
	if bag == nil {
		return
	}
	var items []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity >= minSeverity {
			items = append(items, d)
		}
	}
	for i, d := range items {
		if limit > 0 && i >= limit {
			fmt.Fprintf(out, "... %d more diagnostics\n", len(items)-limit)
			break
		}
		line := d.Short()
		switch d.Severity {
		case diag.SevError:
			line = errorColor.Sprint(line)
		case diag.SevWarning:
			line = warningColor.Sprint(line)
		}
		fmt.Fprintln(out, line)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(out, "... %d diagnostics dropped\n", n)
	}
}
