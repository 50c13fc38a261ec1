package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
)

// AnnotationAdapter translates annotate commands to AnnotationService calls.
type AnnotationAdapter struct {
	service primary.AnnotationService
	out     io.Writer
}

// NewAnnotationAdapter creates a new AnnotationAdapter.
func NewAnnotationAdapter(service primary.AnnotationService, out io.Writer) *AnnotationAdapter {
	return &AnnotationAdapter{service: service, out: out}
}

// Add appends an annotation.
func (a *AnnotationAdapter) Add(ctx context.Context, req primary.AppendAnnotationRequest) error {
	doc, err := a.service.Append(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to add annotation: %w", err)
	}
	list, _ := doc.Annotations(req.Kind)
	fmt.Fprintf(a.out, "✓ Added %s [%d] to %s\n", kindLabel(req.Kind), len(list)-1, req.Identity)
	return nil
}

// Update replaces the text of one annotation.
func (a *AnnotationAdapter) Update(ctx context.Context, req primary.UpdateAnnotationRequest) error {
	if _, err := a.service.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Updated %s [%d] on %s\n", kindLabel(req.Kind), req.Index, req.Identity)
	return nil
}

// List prints the annotations of one kind.
func (a *AnnotationAdapter) List(ctx context.Context, id identity.BoardIdentity, kind report.Kind) error {
	list, err := a.service.List(ctx, id, kind)
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintf(a.out, "No %s entries for %s\n", kindLabel(kind), id)
		return nil
	}
	printAnnotations(a.out, kindLabel(kind), list)
	return nil
}

func kindLabel(kind report.Kind) string {
	if kind == report.RedTag {
		return "red tag"
	}
	return "process flow"
}
