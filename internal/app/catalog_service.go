package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	catalogRepo secondary.CatalogRepository
	annotations primary.AnnotationService
}

var _ primary.CatalogService = (*CatalogServiceImpl)(nil)

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(catalogRepo secondary.CatalogRepository, annotations primary.AnnotationService) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		catalogRepo: catalogRepo,
		annotations: annotations,
	}
}

// List returns the catalog entries of one kind.
func (s *CatalogServiceImpl) List(ctx context.Context, kind report.Kind) ([]string, error) {
	c, err := s.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	entries, err := catalogEntries(c, kind)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// Add appends an entry, ignoring exact duplicates.
func (s *CatalogServiceImpl) Add(ctx context.Context, kind report.Kind, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("catalog entry cannot be empty")
	}
	c, err := s.catalogRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	entries, err := catalogEntries(c, kind)
	if err != nil {
		return err
	}
	if slices.Contains(*entries, text) {
		return nil
	}
	*entries = append(*entries, text)
	return s.catalogRepo.Save(ctx, c)
}

// Remove deletes the entry at index.
func (s *CatalogServiceImpl) Remove(ctx context.Context, kind report.Kind, index int) error {
	c, err := s.catalogRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	entries, err := catalogEntries(c, kind)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*entries) {
		return fmt.Errorf("catalog index %d out of range (have %d)", index, len(*entries))
	}
	*entries = slices.Delete(*entries, index, index+1)
	return s.catalogRepo.Save(ctx, c)
}

// Apply appends the catalog entry at index to every barcode's document.
// A board without a document is reported in its outcome; the rest proceed.
func (s *CatalogServiceImpl) Apply(ctx context.Context, req primary.ApplyCatalogRequest) ([]primary.ApplyOutcome, error) {
	entries, err := s.List(ctx, req.Kind)
	if err != nil {
		return nil, err
	}
	if req.Index < 0 || req.Index >= len(entries) {
		return nil, fmt.Errorf("catalog index %d out of range (have %d)", req.Index, len(entries))
	}
	text := entries[req.Index]

	outcomes := make([]primary.ApplyOutcome, 0, len(req.Barcodes))
	for _, bc := range req.Barcodes {
		id := identity.Parse(bc)
		_, err := s.annotations.Append(ctx, primary.AppendAnnotationRequest{
			Identity: id,
			Kind:     req.Kind,
			Source:   req.Source,
			Text:     text,
		})
		outcomes = append(outcomes, primary.ApplyOutcome{Barcode: bc, Identity: id, Err: err})
	}
	return outcomes, nil
}

func catalogEntries(c *secondary.Catalog, kind report.Kind) (*[]string, error) {
	switch kind {
	case report.RedTag:
		return &c.RedTag, nil
	case report.ProcessFlow:
		return &c.ProcessFlow, nil
	}
	return nil, fmt.Errorf("%w: %q", report.ErrUnknownKind, kind)
}
