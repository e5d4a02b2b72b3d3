package coverage

import (
	"fmt"
	"strings"
	"time"
)

// State is the processing state of a commit measurement
type State uint8

const (
	// StatePending is a commit whose uploads are still being processed
	StatePending State = iota
	// StateComplete is a fully processed commit
	StateComplete
	// StateError is a commit whose processing failed
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState maps a stored state name onto State
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatePending, nil
	case "complete":
		return StateComplete, nil
	case "error":
		return StateError, nil
	}
	return 0, fmt.Errorf("coverage: unknown state %q", s)
}

// Record is one coverage measurement of a commit on a branch
type Record struct {
	ID           string
	RepositoryID int64
	Branch       string
	Timestamp    time.Time
	Totals       MaybeTotals
	State        State
	Deleted      bool
	CIPassed     bool
}

// Valid reports whether r takes part in charts by default
func (r Record) Valid() bool {
	return r.State == StateComplete && !r.Deleted && r.CIPassed && r.Totals.IsPresent()
}
