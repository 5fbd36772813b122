package ui

// Status is the state of one unit in a batch.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusCached
	StatusPartial
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusPartial:
		return "partial"
	case StatusError:
		return "error"
	}
	return ""
}

// Finished reports a terminal status.
func (s Status) Finished() bool {
	return s >= StatusDone
}

// Event is one progress update from a batch run.
type Event struct {
	Unit   string
	Status Status
	Note   string
}
