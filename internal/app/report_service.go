package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	docs    *Documents
	watcher secondary.ReportWatcher
	now     func() time.Time
	logger  *zap.Logger
}

var _ primary.ReportService = (*ReportServiceImpl)(nil)

// NewReportService creates a new ReportService with injected dependencies.
// watcher may be nil when change notification is not needed.
func NewReportService(docs *Documents, watcher secondary.ReportWatcher, logger *zap.Logger) *ReportServiceImpl {
	return &ReportServiceImpl{
		docs:    docs,
		watcher: watcher,
		now:     time.Now,
		logger:  logger,
	}
}

// Load retrieves the document for an identity.
func (s *ReportServiceImpl) Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error) {
	return s.docs.Load(ctx, id)
}

// OpenOrCreate loads the session's document, seeding the skeleton when allowed.
func (s *ReportServiceImpl) OpenOrCreate(ctx context.Context, session primary.Session, create bool) (*report.ReportFile, error) {
	doc, err := s.docs.Load(ctx, session.Identity)
	if err == nil {
		return doc, nil
	}
	if !create || !errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, session)
}

// Create seeds the "no test report found" skeleton for the session's board.
func (s *ReportServiceImpl) Create(ctx context.Context, session primary.Session) (*report.ReportFile, error) {
	doc := report.Skeleton(s.now(), session.Barcode)
	if err := s.docs.Create(ctx, session.Identity, doc); err != nil {
		return nil, fmt.Errorf("failed to create report for %s: %w", session.Identity, err)
	}
	s.logger.Info("created skeleton report",
		zap.String("identity", session.Identity.String()),
		zap.String("station", session.Station))
	return &doc, nil
}

// AppendTestReport appends a completed run, creating the document on first run.
func (s *ReportServiceImpl) AppendTestReport(ctx context.Context, id identity.BoardIdentity, r report.TestReport) (*report.ReportFile, error) {
	doc, err := s.docs.Update(ctx, id, true, func(f report.ReportFile) (report.ReportFile, error) {
		return report.AppendTestReport(f, r), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append test report for %s: %w", id, err)
	}
	s.logger.Debug("appended test report",
		zap.String("identity", id.String()),
		zap.String("timestamp", r.Timestamp),
		zap.String("status", string(r.OverallStatus)),
		zap.Int("reports", len(doc.TestReports)))
	return doc, nil
}

// AttachImage copies the image into the store and records it against a run.
// The image is copied only after the target run is known to exist.
func (s *ReportServiceImpl) AttachImage(ctx context.Context, req primary.AttachImageRequest) (*report.ReportFile, error) {
	repo := s.docs.Repository()
	return s.docs.Update(ctx, req.Identity, false, func(f report.ReportFile) (report.ReportFile, error) {
		if !f.HasReport(req.Timestamp) {
			return f, fmt.Errorf("%w: %s", report.ErrUnknownReport, req.Timestamp)
		}
		name := fmt.Sprintf("%s_%s%s", req.Identity, req.Timestamp, filepath.Ext(req.SourcePath))
		stored, err := repo.StoreImage(ctx, req.SourcePath, name)
		if err != nil {
			return f, fmt.Errorf("failed to store image: %w", err)
		}
		return report.AttachImage(f, req.Timestamp, stored)
	})
}

// List lists stored documents with the verdict of their most recent run.
// A document that cannot be read is listed with its error rather than
// failing the whole listing.
func (s *ReportServiceImpl) List(ctx context.Context, filter string) ([]*primary.ReportSummary, error) {
	repo := s.docs.Repository()
	names, err := repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := make([]*primary.ReportSummary, 0, len(names))
	for _, name := range names {
		sum := &primary.ReportSummary{Filename: name}
		doc, err := repo.LoadFile(ctx, name)
		if err != nil {
			sum.Err = err
			s.logger.Warn("unreadable report", zap.String("file", name), zap.Error(err))
		} else {
			sum.Reports = len(doc.TestReports)
			if latest, ok := doc.Latest(); ok {
				sum.Status = latest.OverallStatus
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// Watch streams report document changes until ctx is done.
func (s *ReportServiceImpl) Watch(ctx context.Context) (<-chan secondary.ReportChange, error) {
	if s.watcher == nil {
		return nil, fmt.Errorf("report watching is not configured")
	}
	return s.watcher.Watch(ctx)
}
