package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// progressView is the --ui flag of the dataset command. It implements
// pflag.Value, so cobra rejects bad values before the command runs.
type progressView uint8

const (
	viewAuto progressView = iota
	viewTUI
	viewPlain
)

var viewNames = [...]string{
	viewAuto:  "auto",
	viewTUI:   "on",
	viewPlain: "off",
}

func (v progressView) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return fmt.Sprintf("progressView(%d)", uint8(v))
}

func (v *progressView) Set(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		*v = viewAuto
		return nil
	}
	for i, name := range viewNames {
		if name == value {
			*v = progressView(i)
			return nil
		}
	}
	return fmt.Errorf("expected auto|on|off, got %q", value)
}

func (*progressView) Type() string { return "mode" }

// interactive decides whether the bubbletea view runs. It draws on stderr,
// so auto needs stderr to be a terminal; stdout may carry the dataset.
func (v progressView) interactive(stderr io.Writer, quiet bool) bool {
	switch {
	case quiet || v == viewPlain:
		return false
	case v == viewTUI:
		return true
	}
	f, ok := stderr.(*os.File)
	return ok && isTerminal(f)
}
