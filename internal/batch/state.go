package batch

import "fmt"

// Failure records one isolated per-frame render failure.
type Failure struct {
	Index  int
	Reason string
}

// State is the outcome of one batch run. Per-frame failures are data here,
// not errors: the run itself only fails on environment problems.
type State struct {
	Total     int
	Completed int
	Skipped   int
	Failed    []Failure
	Cancelled bool
}

// Processed returns how many items the run has handled.
func (s State) Processed() int {
	return s.Completed + s.Skipped + len(s.Failed)
}

// Summary returns a one-line human-readable result.
func (s State) Summary() string {
	msg := fmt.Sprintf("%d/%d rendered, %d skipped, %d failed", s.Completed, s.Total, s.Skipped, len(s.Failed))
	if s.Cancelled {
		msg += " (cancelled)"
	}
	return msg
}
