package primary

import (
	"context"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
)

// AnnotationService defines the primary port for red-tag and process-flow sublogs.
type AnnotationService interface {
	// Append adds an annotation. A missing document is secondary.ErrNotFound,
	// never an implicit create.
	Append(ctx context.Context, req AppendAnnotationRequest) (*report.ReportFile, error)

	// Update replaces the text of the annotation at a row index.
	Update(ctx context.Context, req UpdateAnnotationRequest) (*report.ReportFile, error)

	// List returns the annotations of one kind.
	List(ctx context.Context, id identity.BoardIdentity, kind report.Kind) ([]report.Annotation, error)
}

// AppendAnnotationRequest contains parameters for appending an annotation.
type AppendAnnotationRequest struct {
	Identity identity.BoardIdentity
	Kind     report.Kind
	Source   report.Source
	Text     string
}

// UpdateAnnotationRequest contains parameters for replacing an annotation by row.
type UpdateAnnotationRequest struct {
	Identity identity.BoardIdentity
	Kind     report.Kind
	Index    int
	Text     string
}
