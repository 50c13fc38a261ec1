package cli

import (
	"context"
	"time"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/core/yield"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// mockReportService implements primary.ReportService for testing
type mockReportService struct {
	loadFn   func(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error)
	createFn func(ctx context.Context, session primary.Session) (*report.ReportFile, error)
	attachFn func(ctx context.Context, req primary.AttachImageRequest) (*report.ReportFile, error)
	listFn   func(ctx context.Context, filter string) ([]*primary.ReportSummary, error)
	watchFn  func(ctx context.Context) (<-chan secondary.ReportChange, error)
}

func (m *mockReportService) Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error) {
	return m.loadFn(ctx, id)
}

func (m *mockReportService) OpenOrCreate(ctx context.Context, session primary.Session, create bool) (*report.ReportFile, error) {
	return m.loadFn(ctx, session.Identity)
}

func (m *mockReportService) Create(ctx context.Context, session primary.Session) (*report.ReportFile, error) {
	return m.createFn(ctx, session)
}

func (m *mockReportService) AppendTestReport(ctx context.Context, id identity.BoardIdentity, r report.TestReport) (*report.ReportFile, error) {
	return nil, nil
}

func (m *mockReportService) AttachImage(ctx context.Context, req primary.AttachImageRequest) (*report.ReportFile, error) {
	return m.attachFn(ctx, req)
}

func (m *mockReportService) List(ctx context.Context, filter string) ([]*primary.ReportSummary, error) {
	return m.listFn(ctx, filter)
}

func (m *mockReportService) Watch(ctx context.Context) (<-chan secondary.ReportChange, error) {
	return m.watchFn(ctx)
}

// mockMeasurementService replays a fixed event stream.
type mockMeasurementService struct {
	events []primary.Event
	err    error
}

func (m *mockMeasurementService) Start(ctx context.Context, req primary.RunRequest) (<-chan primary.Event, error) {
	ch := make(chan primary.Event, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (m *mockMeasurementService) Run(ctx context.Context, req primary.RunRequest, observe func(primary.Event)) (*report.TestReport, error) {
	var done *report.TestReport
	for _, ev := range m.events {
		observe(ev)
		if ev.Kind == primary.EventDone {
			done = ev.Report
		}
	}
	return done, m.err
}

func (m *mockMeasurementService) Plans() []measurement.Plan {
	plans := measurement.BuiltinPlans()
	out := []measurement.Plan{}
	for _, name := range plans.Boards() {
		out = append(out, plans[name])
	}
	return out
}

// mockSyncService returns canned results.
type mockSyncService struct {
	push, pull  primary.SyncResult
	lastMessage string
}

func (m *mockSyncService) Push(ctx context.Context, message string) primary.SyncResult {
	m.lastMessage = message
	return m.push
}

func (m *mockSyncService) Pull(ctx context.Context) primary.SyncResult { return m.pull }

func (m *mockSyncService) PushAsync(ctx context.Context, message string) <-chan primary.SyncResult {
	ch := make(chan primary.SyncResult, 1)
	ch <- m.Push(ctx, message)
	close(ch)
	return ch
}

func (m *mockSyncService) PullAsync(ctx context.Context) <-chan primary.SyncResult {
	ch := make(chan primary.SyncResult, 1)
	ch <- m.pull
	close(ch)
	return ch
}

func (m *mockSyncService) Watch(ctx context.Context, interval time.Duration, report func(primary.SyncResult)) {
	report(m.pull)
}

type mockAnnotationService struct {
	appendFn func(ctx context.Context, req primary.AppendAnnotationRequest) (*report.ReportFile, error)
	updateFn func(ctx context.Context, req primary.UpdateAnnotationRequest) (*report.ReportFile, error)
	listFn   func(ctx context.Context, id identity.BoardIdentity, kind report.Kind) ([]report.Annotation, error)
}

func (m *mockAnnotationService) Append(ctx context.Context, req primary.AppendAnnotationRequest) (*report.ReportFile, error) {
	return m.appendFn(ctx, req)
}

func (m *mockAnnotationService) Update(ctx context.Context, req primary.UpdateAnnotationRequest) (*report.ReportFile, error) {
	return m.updateFn(ctx, req)
}

func (m *mockAnnotationService) List(ctx context.Context, id identity.BoardIdentity, kind report.Kind) ([]report.Annotation, error) {
	return m.listFn(ctx, id, kind)
}

type mockYieldService struct {
	summary *yield.Summary
}

func (m *mockYieldService) Compute(ctx context.Context, filter yield.Filter) (*yield.Summary, error) {
	return m.summary, nil
}

type mockHistoryService struct {
	runs     []*primary.Run
	attempts []*primary.SyncAttempt
}

func (m *mockHistoryService) ListRuns(ctx context.Context, filters primary.HistoryFilters) ([]*primary.Run, error) {
	return m.runs, nil
}

func (m *mockHistoryService) ListSync(ctx context.Context, limit int) ([]*primary.SyncAttempt, error) {
	return m.attempts, nil
}

type mockCatalogService struct {
	entries  []string
	outcomes []primary.ApplyOutcome
}

func (m *mockCatalogService) List(ctx context.Context, kind report.Kind) ([]string, error) {
	return m.entries, nil
}

func (m *mockCatalogService) Add(ctx context.Context, kind report.Kind, text string) error {
	m.entries = append(m.entries, text)
	return nil
}

func (m *mockCatalogService) Remove(ctx context.Context, kind report.Kind, index int) error {
	m.entries = append(m.entries[:index], m.entries[index+1:]...)
	return nil
}

func (m *mockCatalogService) Apply(ctx context.Context, req primary.ApplyCatalogRequest) ([]primary.ApplyOutcome, error) {
	return m.outcomes, nil
}
