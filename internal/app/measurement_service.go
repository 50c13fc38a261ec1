package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// eventBuffer is the capacity of a run's event channel.
const eventBuffer = 64

// MeasurementServiceImpl implements the MeasurementService interface.
type MeasurementServiceImpl struct {
	plans   measurement.PlanSet
	reports primary.ReportService
	runLog  secondary.RunLogRepository
	timing  measurement.Timing
	now     func() time.Time
	logger  *zap.Logger
}

var _ primary.MeasurementService = (*MeasurementServiceImpl)(nil)

// NewMeasurementService creates a new MeasurementService with injected dependencies.
// runLog may be nil when no station history is kept.
func NewMeasurementService(plans measurement.PlanSet, reports primary.ReportService, runLog secondary.RunLogRepository, timing measurement.Timing, logger *zap.Logger) *MeasurementServiceImpl {
	return &MeasurementServiceImpl{
		plans:   plans,
		reports: reports,
		runLog:  runLog,
		timing:  timing,
		now:     time.Now,
		logger:  logger,
	}
}

// Plans lists the boards with a channel plan, sorted by board name.
func (s *MeasurementServiceImpl) Plans() []measurement.Plan {
	out := make([]measurement.Plan, 0, len(s.plans))
	for _, name := range s.plans.Boards() {
		out = append(out, s.plans[name])
	}
	return out
}

// Start validates the request and runs the protocol on a dedicated worker.
// The caller must drain the returned channel or cancel ctx.
func (s *MeasurementServiceImpl) Start(ctx context.Context, req primary.RunRequest) (<-chan primary.Event, error) {
	if req.Device == nil {
		return nil, fmt.Errorf("no device session provided")
	}
	id := req.Session.Identity
	if err := identity.CanStore(id).Error(); err != nil {
		return nil, err
	}
	plan, err := s.plans.Lookup(id.Name)
	if err != nil {
		return nil, err
	}

	events := make(chan primary.Event, eventBuffer)
	r := &run{
		svc:    s,
		req:    req,
		plan:   plan,
		events: events,
		state:  measurement.StateIdle,
		logger: s.logger.With(zap.String("identity", id.String()), zap.String("station", req.Session.Station)),
	}
	go func() {
		defer close(events)
		r.execute(ctx)
	}()
	return events, nil
}

// Run starts the protocol and waits for its outcome.
func (s *MeasurementServiceImpl) Run(ctx context.Context, req primary.RunRequest, observe func(primary.Event)) (*report.TestReport, error) {
	events, err := s.Start(ctx, req)
	if err != nil {
		return nil, err
	}

	var result *report.TestReport
	var runErr error
	for ev := range events {
		if observe != nil {
			observe(ev)
		}
		switch ev.Kind {
		case primary.EventDone:
			result = ev.Report
		case primary.EventError:
			runErr = ev.Err
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("measurement ended without a report")
	}
	return result, nil
}

// run is the state of one measurement session, owned by its worker goroutine.
type run struct {
	svc    *MeasurementServiceImpl
	req    primary.RunRequest
	plan   measurement.Plan
	events chan<- primary.Event
	state  measurement.State
	opened bool
	logger *zap.Logger
}

func (r *run) emit(ctx context.Context, ev primary.Event) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

func (r *run) logf(ctx context.Context, format string, args ...any) {
	r.emit(ctx, primary.Event{Kind: primary.EventLog, State: r.state, Line: fmt.Sprintf(format, args...)})
}

func (r *run) fail(ctx context.Context, err error) {
	r.logger.Error("measurement failed", zap.String("state", string(r.state)), zap.Error(err))
	r.emit(ctx, primary.Event{Kind: primary.EventError, State: r.state, Err: err})
}

func (r *run) transition(ctx context.Context, to measurement.State) {
	if err := measurement.CanTransition(r.state, to).Error(); err != nil {
		r.logger.Error("invalid state transition", zap.Error(err))
		return
	}
	r.state = to
	r.logger.Debug("state", zap.String("state", string(to)))
	r.indicate(ctx)
	r.emit(ctx, primary.Event{Kind: primary.EventState, State: to})
}

// indicate lights the indicator LED for the current state. Failures are logged only.
func (r *run) indicate(ctx context.Context) {
	ind := r.plan.Indicators
	if ind == nil || !r.opened {
		return
	}
	pin, ok := ind.ForState(r.state)
	if !ok {
		return
	}
	for _, p := range ind.Pins() {
		if err := r.req.Device.SetChannel(ctx, p, p == pin); err != nil {
			r.logger.Warn("indicator update failed", zap.Int("pin", p), zap.Error(err))
		}
	}
}

func (r *run) execute(ctx context.Context) {
	dev := r.req.Device
	timing := r.svc.timing

	r.transition(ctx, measurement.StateConnecting)
	if err := dev.Open(ctx); err != nil {
		if !errors.Is(err, secondary.ErrDeviceConnect) {
			err = fmt.Errorf("%w: %v", secondary.ErrDeviceConnect, err)
		}
		r.transition(ctx, measurement.StateAborted)
		r.fail(ctx, err)
		return
	}
	r.opened = true
	defer func() {
		if err := dev.Close(); err != nil {
			r.logger.Warn("device close failed", zap.Error(err))
		}
	}()

	supplies := secondary.SupplyConfig{
		PositiveVolts: r.plan.Supplies.PositiveVolts,
		NegativeVolts: r.plan.Supplies.NegativeVolts,
	}
	if err := dev.ConfigureSupplies(ctx, supplies); err != nil {
		r.transition(ctx, measurement.StateAborted)
		r.fail(ctx, fmt.Errorf("%w: configure supplies: %v", secondary.ErrDeviceConnect, err))
		return
	}
	r.logf(ctx, "supplies on: +%.1fV / %.1fV", supplies.PositiveVolts, supplies.NegativeVolts)

	r.transition(ctx, measurement.StateReady)
	if r.req.StartSignal != nil {
		r.logf(ctx, "ready: waiting for operator start")
		select {
		case <-r.req.StartSignal:
		case <-ctx.Done():
			r.transition(ctx, measurement.StateAborted)
			r.fail(ctx, ctx.Err())
			return
		}
	}

	r.transition(ctx, measurement.StateInProgress)
	results := make([]report.TestResult, 0, len(r.plan.Channels))
	for _, ch := range r.plan.Channels {
		res, err := r.measureChannel(ctx, ch, timing)
		if err != nil {
			// Only cancellation of ctx ends a run mid-plan; nothing is persisted.
			r.fail(ctx, err)
			return
		}
		results = append(results, res)
		r.emit(ctx, primary.Event{Kind: primary.EventResult, State: r.state, Result: &res})
	}

	tr := report.NewTestReport(r.svc.now(), r.req.Session.Barcode, results)
	r.transition(ctx, measurement.DoneState(tr.OverallStatus))

	id := r.req.Session.Identity
	if _, err := r.svc.reports.AppendTestReport(ctx, id, tr); err != nil {
		r.fail(ctx, err)
		return
	}
	r.record(ctx, tr)
	r.logger.Info("measurement complete",
		zap.String("status", string(tr.OverallStatus)),
		zap.Int("results", len(tr.TestResults)))
	r.emit(ctx, primary.Event{Kind: primary.EventDone, State: r.state, Report: &tr})
}

// measureChannel energizes one channel, waits for it to settle and acquires
// its samples. An acquisition that times out or errors fails only this
// channel. The returned error is non-nil only when ctx is done.
func (r *run) measureChannel(ctx context.Context, ch measurement.Channel, timing measurement.Timing) (report.TestResult, error) {
	dev := r.req.Device

	if err := dev.SetChannel(ctx, ch.Pin, true); err != nil {
		r.logf(ctx, "test %d %s: energize pin %d failed: %v", ch.TestNumber, ch.Label, ch.Pin, err)
		return measurement.Failed(ch), ctx.Err()
	}
	defer func() {
		if err := dev.SetChannel(context.WithoutCancel(ctx), ch.Pin, false); err != nil {
			r.logger.Warn("de-energize failed", zap.Int("pin", ch.Pin), zap.Error(err))
		}
	}()

	if err := sleep(ctx, timing.SettleDelay); err != nil {
		return report.TestResult{}, err
	}

	actx, cancel := context.WithTimeout(ctx, timing.AcquireTimeout)
	defer cancel()
	samples, err := dev.Acquire(actx, secondary.AcquireRequest{
		Input:        ch.ScopeInput,
		SampleCount:  r.plan.SampleCount,
		SampleRate:   r.plan.SampleRate,
		InputRange:   r.plan.InputRange,
		PollInterval: timing.PollInterval,
	})
	if ctx.Err() != nil {
		return report.TestResult{}, ctx.Err()
	}
	if err != nil {
		if errors.Is(actx.Err(), context.DeadlineExceeded) && !errors.Is(err, secondary.ErrAcquisitionTimeout) {
			err = fmt.Errorf("%w: %v", secondary.ErrAcquisitionTimeout, err)
		}
		r.logger.Warn("acquisition failed", zap.Int("test", ch.TestNumber), zap.Error(err))
		r.logf(ctx, "test %d %s: %v", ch.TestNumber, ch.Label, err)
		return measurement.Failed(ch), nil
	}

	if mean, ok := measurement.Mean(samples); ok && !measurement.Finite(mean) {
		r.logger.Warn("non-finite channel mean", zap.Int("test", ch.TestNumber), zap.Float64("mean", mean))
		r.logf(ctx, "test %d %s: unusable samples (mean %v)", ch.TestNumber, ch.Label, mean)
		return measurement.Failed(ch), nil
	}

	res := measurement.Evaluate(ch, samples)
	r.logf(ctx, "test %d %s: measured %.3f V [%.3f, %.3f] %s",
		ch.TestNumber, ch.Label, res.MeasuredValue, ch.Lower, ch.Upper, res.Conclusion)
	return res, nil
}

// record adds the run to the station history. Failures are logged only.
func (r *run) record(ctx context.Context, tr report.TestReport) {
	if r.svc.runLog == nil {
		return
	}
	rec := &secondary.RunRecord{
		ID:          uuid.NewString(),
		Identity:    r.req.Session.Identity.String(),
		Barcode:     tr.Barcode,
		Status:      string(tr.OverallStatus),
		Timestamp:   tr.Timestamp,
		Station:     r.req.Session.Station,
		ResultCount: len(tr.TestResults),
	}
	if err := r.svc.runLog.RecordRun(ctx, rec); err != nil {
		r.logger.Warn("failed to record run history", zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
