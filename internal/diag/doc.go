// Package diag defines the diagnostic model shared by the driver and the CLI.
//
// A batch abstracts many units (files or dataset functions). A unit that fails
// to load, parse, classify or render produces a Diagnostic instead of aborting
// the batch. Diagnostics carry:
//
//   - Severity: Info, Warning or Error.
//   - Code: a stable numeric identifier with a prefixed string form
//     (IO4001, PAR2001, ABS3001, ...).
//   - Unit: the file path or "record#N" the finding belongs to.
//   - Line: zero-based source line when one is known, -1 otherwise.
//   - Message: short, human oriented text.
//
// Producers emit through a Reporter; BagReporter collects into a size-limited
// Bag that supports sorting and deduplication for deterministic output.
package diag
