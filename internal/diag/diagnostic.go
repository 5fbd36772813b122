package diag

import "fmt"

// NoLine marks a diagnostic that is not tied to a source line.
const NoLine = -1

type Diagnostic struct {
	Severity Severity
	Code     Code
	Unit     string
	Line     int
	Message  string
}

func New(sev Severity, code Code, unit string, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Unit: unit, Line: NoLine, Message: msg}
}

func NewError(code Code, unit, msg string) Diagnostic {
	return New(SevError, code, unit, msg)
}

func NewWarning(code Code, unit, msg string) Diagnostic {
	return New(SevWarning, code, unit, msg)
}

// AtLine returns a copy of d pinned to a zero-based line.
func (d Diagnostic) AtLine(line int) Diagnostic {
	d.Line = line
	return d
}

// Short renders "unit:line: SEVERITY ID: message"; the line is one-based.
func (d Diagnostic) Short() string {
	loc := d.Unit
	if loc == "" {
		loc = "<input>"
	}
	if d.Line >= 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line+1)
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity, d.Code.ID(), d.Message)
}
