package abstract

import "errors"

var (
	// ErrOverlap is returned when two occurrences on one line share bytes.
	// The classifier never produces such a unit; seeing it means a broken policy or a corrupt record.
	ErrOverlap = errors.New("overlapping occurrences")
	// ErrInconsistent is returned when an occurrence does not match the source it is rendered
	// against or has no symbol in the table.
	ErrInconsistent = errors.New("inconsistent abstraction unit")
)
