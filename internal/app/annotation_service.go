package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
)

// AnnotationServiceImpl implements the AnnotationService interface.
type AnnotationServiceImpl struct {
	docs   *Documents
	now    func() time.Time
	logger *zap.Logger
}

var _ primary.AnnotationService = (*AnnotationServiceImpl)(nil)

// NewAnnotationService creates a new AnnotationService with injected dependencies.
func NewAnnotationService(docs *Documents, logger *zap.Logger) *AnnotationServiceImpl {
	return &AnnotationServiceImpl{
		docs:   docs,
		now:    time.Now,
		logger: logger,
	}
}

// Append adds an annotation to an existing document.
func (s *AnnotationServiceImpl) Append(ctx context.Context, req primary.AppendAnnotationRequest) (*report.ReportFile, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("annotation text cannot be empty")
	}
	a := report.Annotation{
		Timestamp: report.FormatTimestamp(s.now()),
		Source:    req.Source,
		Text:      text,
	}

	doc, err := s.docs.Update(ctx, req.Identity, false, func(f report.ReportFile) (report.ReportFile, error) {
		return report.AppendAnnotation(f, req.Kind, a)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append %s annotation for %s: %w", req.Kind, req.Identity, err)
	}
	s.logger.Debug("appended annotation",
		zap.String("identity", req.Identity.String()),
		zap.String("kind", string(req.Kind)))
	return doc, nil
}

// Update replaces the text of the annotation at req.Index.
func (s *AnnotationServiceImpl) Update(ctx context.Context, req primary.UpdateAnnotationRequest) (*report.ReportFile, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("annotation text cannot be empty")
	}
	doc, err := s.docs.Update(ctx, req.Identity, false, func(f report.ReportFile) (report.ReportFile, error) {
		return report.UpdateAnnotation(f, req.Kind, req.Index, text)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s annotation %d for %s: %w", req.Kind, req.Index, req.Identity, err)
	}
	return doc, nil
}

// List returns the annotations of one kind.
func (s *AnnotationServiceImpl) List(ctx context.Context, id identity.BoardIdentity, kind report.Kind) ([]report.Annotation, error) {
	doc, err := s.docs.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Annotations(kind)
}
