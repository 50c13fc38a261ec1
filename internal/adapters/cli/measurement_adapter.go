package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
)

// MeasurementAdapter streams a measurement run to the operator.
type MeasurementAdapter struct {
	service primary.MeasurementService
	out     io.Writer
}

// NewMeasurementAdapter creates a new MeasurementAdapter.
func NewMeasurementAdapter(service primary.MeasurementService, out io.Writer) *MeasurementAdapter {
	return &MeasurementAdapter{service: service, out: out}
}

// Run executes the protocol, printing each event as it arrives.
func (a *MeasurementAdapter) Run(ctx context.Context, req primary.RunRequest) (*report.TestReport, error) {
	tr, err := a.service.Run(ctx, req, a.PrintEvent)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// PrintEvent writes one measurement event.
func (a *MeasurementAdapter) PrintEvent(ev primary.Event) {
	switch ev.Kind {
	case primary.EventState:
		fmt.Fprintf(a.out, "» %s\n", stateLabel(ev.State))
	case primary.EventLog:
		fmt.Fprintf(a.out, "  %s\n", dimColor.Sprint(ev.Line))
	case primary.EventResult:
		PrintResult(a.out, *ev.Result)
	case primary.EventDone:
		fmt.Fprintln(a.out, rule)
		fmt.Fprintf(a.out, "Overall: %s  (%s)\n", Badge(ev.Report.OverallStatus), ev.Report.Timestamp)
	case primary.EventError:
		fmt.Fprintf(a.out, "%s %v\n", failColor.Sprint("✗"), ev.Err)
	}
}

func stateLabel(s measurement.State) string {
	label := strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
	switch s {
	case measurement.StateReady:
		return warnColor.Sprint(label + ", press Enter to start")
	case measurement.StatePass:
		return passColor.Sprint(label)
	case measurement.StateFail, measurement.StateAborted:
		return failColor.Sprint(label)
	}
	return label
}

// PrintPlans lists the boards with a channel plan.
func (a *MeasurementAdapter) PrintPlans() {
	plans := a.service.Plans()
	fmt.Fprintf(a.out, "\n%-16s %-10s %s\n", "BOARD", "CHANNELS", "REVISIONS")
	fmt.Fprintln(a.out, rule)
	for _, p := range plans {
		fmt.Fprintf(a.out, "%-16s %-10d %v\n", p.Board, len(p.Channels), p.Revisions)
	}
	fmt.Fprintln(a.out)
}
