package primary

import (
	"context"

	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/secondary"
)

// MeasurementService defines the primary port for running the measurement protocol.
type MeasurementService interface {
	// Start validates the request and runs the protocol on a dedicated worker.
	// Progress, log lines and the outcome arrive in order on the returned
	// channel, which is closed after the final EventDone or EventError.
	Start(ctx context.Context, req RunRequest) (<-chan Event, error)

	// Run starts the protocol, drains its events into observe (may be nil)
	// and returns the persisted report.
	Run(ctx context.Context, req RunRequest, observe func(Event)) (*report.TestReport, error)

	// Plans lists the boards with a channel plan.
	Plans() []measurement.Plan
}

// RunRequest contains parameters for one measurement run.
type RunRequest struct {
	Session Session
	Device  secondary.DeviceSession

	// StartSignal is the operator confirmation awaited in the Ready state.
	// A nil channel starts immediately; a closed channel also starts.
	StartSignal <-chan struct{}
}

// EventKind classifies measurement events.
type EventKind string

const (
	EventState  EventKind = "state"
	EventLog    EventKind = "log"
	EventResult EventKind = "result"
	EventDone   EventKind = "done"
	EventError  EventKind = "error"
)

// Event is one entry of the ordered measurement event stream.
type Event struct {
	Kind   EventKind
	State  measurement.State
	Line   string
	Result *report.TestResult
	Report *report.TestReport
	Err    error
}
