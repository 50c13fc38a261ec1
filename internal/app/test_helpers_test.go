package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.ReportRepository  = (*memReportRepo)(nil)
	_ secondary.DeviceSession     = (*fakeDevice)(nil)
	_ secondary.SyncRemote        = (*mockSyncRemote)(nil)
	_ secondary.RunLogRepository  = (*memRunLog)(nil)
	_ secondary.CatalogRepository = (*memCatalogRepo)(nil)
)

// memReportRepo implements secondary.ReportRepository in memory for testing.
type memReportRepo struct {
	mu      sync.Mutex
	docs    map[string]report.ReportFile
	images  map[string]string
	saveErr error
	writes  int
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{
		docs:   make(map[string]report.ReportFile),
		images: make(map[string]string),
	}
}

func (m *memReportRepo) Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error) {
	return m.LoadFile(ctx, id.Filename())
}

func (m *memReportRepo) Save(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[id.Filename()] = *doc
	m.writes++
	return nil
}

func (m *memReportRepo) Create(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id.Filename()]; ok {
		return fmt.Errorf("%w: %s", secondary.ErrAlreadyExists, id.Filename())
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[id.Filename()] = *doc
	m.writes++
	return nil
}

func (m *memReportRepo) Exists(ctx context.Context, id identity.BoardIdentity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id.Filename()]
	return ok, nil
}

func (m *memReportRepo) List(ctx context.Context, filter string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.docs {
		if filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memReportRepo) LoadFile(ctx context.Context, filename string) (*report.ReportFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", secondary.ErrNotFound, filename)
	}
	return &doc, nil
}

func (m *memReportRepo) StoreImage(ctx context.Context, srcPath, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = srcPath
	return name, nil
}

func (m *memReportRepo) Path(id identity.BoardIdentity) string {
	return "/reports/" + id.Filename()
}

func (m *memReportRepo) Root() string {
	return "/reports"
}

func (m *memReportRepo) doc(name string) (report.ReportFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[name]
	return d, ok
}

// fakeDevice implements secondary.DeviceSession for testing.
// Acquire returns the samples configured for the most recently energized pin.
type fakeDevice struct {
	mu          sync.Mutex
	openErr     error
	suppliesErr error
	samples     map[int][]float64
	hang        map[int]bool
	lastOn      int
	pinCalls    []pinCall
	acquires    []secondary.AcquireRequest
	opened      bool
	closed      bool
	supplies    secondary.SupplyConfig
}

type pinCall struct {
	Pin int
	On  bool
}

func newFakeDevice(samples map[int][]float64) *fakeDevice {
	return &fakeDevice{samples: samples, hang: make(map[int]bool), lastOn: -1}
}

func (d *fakeDevice) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return d.openErr
	}
	d.opened = true
	return nil
}

func (d *fakeDevice) ConfigureSupplies(ctx context.Context, cfg secondary.SupplyConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supplies = cfg
	return d.suppliesErr
}

func (d *fakeDevice) SetChannel(ctx context.Context, pin int, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pinCalls = append(d.pinCalls, pinCall{Pin: pin, On: on})
	if on {
		if _, ok := d.samples[pin]; ok || d.hang[pin] {
			d.lastOn = pin
		}
	}
	return nil
}

func (d *fakeDevice) Acquire(ctx context.Context, req secondary.AcquireRequest) ([]float64, error) {
	d.mu.Lock()
	d.acquires = append(d.acquires, req)
	pin := d.lastOn
	hang := d.hang[pin]
	samples := d.samples[pin]
	d.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, secondary.ErrAcquisitionTimeout
	}
	return samples, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) calls() []pinCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]pinCall(nil), d.pinCalls...)
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// mockSyncRemote implements secondary.SyncRemote for testing.
type mockSyncRemote struct {
	mu            sync.Mutex
	calls         []string
	isDirtyFn     func() (bool, error)
	commitAllFn   func(message string) (bool, error)
	pushFn        func() error
	fetchFn       func() error
	aheadBehindFn func() (int, int, error)
	fastForwardFn func() error
	mergeFn       func(allowUnrelated bool) error
}

func (m *mockSyncRemote) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockSyncRemote) called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockSyncRemote) IsDirty(ctx context.Context) (bool, error) {
	m.record("status")
	if m.isDirtyFn != nil {
		return m.isDirtyFn()
	}
	return false, nil
}

func (m *mockSyncRemote) CommitAll(ctx context.Context, message string) (bool, error) {
	m.record("commit")
	if m.commitAllFn != nil {
		return m.commitAllFn(message)
	}
	return true, nil
}

func (m *mockSyncRemote) Push(ctx context.Context) error {
	m.record("push")
	if m.pushFn != nil {
		return m.pushFn()
	}
	return nil
}

func (m *mockSyncRemote) Fetch(ctx context.Context) error {
	m.record("fetch")
	if m.fetchFn != nil {
		return m.fetchFn()
	}
	return nil
}

func (m *mockSyncRemote) AheadBehind(ctx context.Context) (int, int, error) {
	m.record("ahead-behind")
	if m.aheadBehindFn != nil {
		return m.aheadBehindFn()
	}
	return 0, 0, nil
}

func (m *mockSyncRemote) FastForward(ctx context.Context) error {
	m.record("fast-forward")
	if m.fastForwardFn != nil {
		return m.fastForwardFn()
	}
	return nil
}

func (m *mockSyncRemote) Merge(ctx context.Context, allowUnrelated bool) error {
	if allowUnrelated {
		m.record("merge-unrelated")
	} else {
		m.record("merge")
	}
	if m.mergeFn != nil {
		return m.mergeFn(allowUnrelated)
	}
	return nil
}

// memRunLog implements secondary.RunLogRepository in memory for testing.
type memRunLog struct {
	mu    sync.Mutex
	runs  []*secondary.RunRecord
	syncs []*secondary.SyncRecord
}

func (m *memRunLog) RecordRun(ctx context.Context, run *secondary.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRunLog) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.RunRecord
	for i := len(m.runs) - 1; i >= 0; i-- {
		r := m.runs[i]
		if filters.Identity != "" && r.Identity != filters.Identity {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memRunLog) RecordSync(ctx context.Context, rec *secondary.SyncRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs = append(m.syncs, rec)
	return nil
}

func (m *memRunLog) ListSync(ctx context.Context, limit int) ([]*secondary.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.SyncRecord
	for i := len(m.syncs) - 1; i >= 0; i-- {
		out = append(out, m.syncs[i])
	}
	return out, nil
}

func (m *memRunLog) syncRecords() []*secondary.SyncRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*secondary.SyncRecord(nil), m.syncs...)
}

// memCatalogRepo implements secondary.CatalogRepository in memory for testing.
type memCatalogRepo struct {
	catalog secondary.Catalog
}

func (m *memCatalogRepo) Load(ctx context.Context) (*secondary.Catalog, error) {
	c := secondary.Catalog{
		RedTag:      append([]string(nil), m.catalog.RedTag...),
		ProcessFlow: append([]string(nil), m.catalog.ProcessFlow...),
	}
	return &c, nil
}

func (m *memCatalogRepo) Save(ctx context.Context, catalog *secondary.Catalog) error {
	m.catalog = *catalog
	return nil
}

// fixedClock returns a clock starting at start and advancing one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}
