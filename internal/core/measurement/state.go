package measurement

import (
	"fmt"

	"github.com/example/testhub/internal/core/report"
)

// State is a measurement session state.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateAborted    State = "aborted"
	StateReady      State = "ready"
	StateInProgress State = "in_progress"
	StatePass       State = "pass"
	StateFail       State = "fail"
)

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateAborted || s == StatePass || s == StateFail
}

var transitions = map[State][]State{
	StateIdle:       {StateConnecting},
	StateConnecting: {StateReady, StateAborted},
	StateReady:      {StateInProgress, StateAborted},
	StateInProgress: {StatePass, StateFail},
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanTransition evaluates whether a session may move from one state to another.
// Rule: Idle -> Connecting -> {Aborted | Ready} -> InProgress -> {Pass | Fail}.
// Ready may also abort when the operator start signal is withdrawn.
func CanTransition(from, to State) GuardResult {
	for _, next := range transitions[from] {
		if next == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot transition measurement session from %s to %s", from, to),
	}
}

// DoneState maps a run verdict to its terminal state.
func DoneState(status report.Status) State {
	if status == report.Pass {
		return StatePass
	}
	return StateFail
}
