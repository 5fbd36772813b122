package abstract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"codeabs/internal/category"
	"codeabs/internal/source"
)

// edit replaces src[start:end] with text. Offsets are absolute.
type edit struct {
	start, end uint32
	text       string
}

// Render rewrites src, replacing every occurrence whose category is enabled in cfg.
// Continuation lines of multi-line occurrences become one space per character.
// Line terminators and the line count are preserved; with nothing enabled the
// output equals src.
//
// The whole unit is checked before any output is produced: an occurrence off
// the end of the source, one whose text differs from the source, or an enabled
// occurrence without a symbol fails with ErrInconsistent.
func Render(src []byte, index *Index, table *Table, cfg category.Config) (string, error) {
	lines := source.SplitLines(src)
	rows := index.Lines()
	plan := make(map[int][]edit, len(rows))
	for _, row := range rows {
		if int(row) >= len(lines) {
			return "", fmt.Errorf("%w: occurrence on line %d, source has %d lines", ErrInconsistent, row, len(lines))
		}
		edits, err := planLine(src, lines[row], index.On(row), table, cfg)
		if err != nil {
			return "", err
		}
		if len(edits) > 0 {
			plan[int(row)] = edits
		}
	}

	var b strings.Builder
	b.Grow(len(src))
	for row, l := range lines {
		cursor := l.Start
		for _, e := range plan[row] {
			b.Write(src[cursor:e.start])
			b.WriteString(e.text)
			cursor = e.end
		}
		b.Write(src[cursor:l.Next])
	}
	return b.String(), nil
}

func planLine(src []byte, l source.Line, occs []Occurrence, table *Table, cfg category.Config) ([]edit, error) {
	var edits []edit
	for _, occ := range occs {
		if !occ.Category.Valid() {
			return nil, fmt.Errorf("render %s: %w", occ, category.ErrUnknownCategory)
		}
		start := l.Start + occ.Column
		end := start + occ.Length()
		if end > l.End || end < start {
			return nil, fmt.Errorf("%w: %s runs past the end of its line", ErrInconsistent, occ)
		}
		if string(src[start:end]) != occ.Text {
			return nil, fmt.Errorf("%w: %s does not match source %q", ErrInconsistent, occ, src[start:end])
		}
		if !cfg.Enabled(occ.Category) {
			continue
		}
		var text string
		if occ.Continuation {
			text = strings.Repeat(" ", utf8.RuneCountInString(occ.Text))
		} else {
			sym, ok := table.Lookup(occ.Category, occ.Key())
			if !ok {
				return nil, fmt.Errorf("%w: no %s symbol for %q", ErrInconsistent, occ.Category, occ.Key())
			}
			text = sym
		}
		edits = append(edits, edit{start: start, end: end, text: text})
	}
	return edits, nil
}
