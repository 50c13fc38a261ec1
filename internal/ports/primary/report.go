package primary

import (
	"context"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/secondary"
)

// ReportService defines the primary port for per-board report documents.
type ReportService interface {
	// Load retrieves the document for an identity. Returns secondary.ErrNotFound when absent.
	Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error)

	// OpenOrCreate loads the document, or seeds the skeleton when create is set
	// and none exists. Without create a missing document is ErrNotFound.
	OpenOrCreate(ctx context.Context, session Session, create bool) (*report.ReportFile, error)

	// Create seeds the skeleton document for a board with no report.
	Create(ctx context.Context, session Session) (*report.ReportFile, error)

	// AppendTestReport appends a completed run, creating the document on first run.
	AppendTestReport(ctx context.Context, id identity.BoardIdentity, r report.TestReport) (*report.ReportFile, error)

	// AttachImage copies an image into the store and records it against a run.
	AttachImage(ctx context.Context, req AttachImageRequest) (*report.ReportFile, error)

	// List lists stored documents, optionally filtered by a case-insensitive substring.
	List(ctx context.Context, filter string) ([]*ReportSummary, error)

	// Watch streams report document changes until ctx is done.
	Watch(ctx context.Context) (<-chan secondary.ReportChange, error)
}

// AttachImageRequest contains parameters for attaching an image.
type AttachImageRequest struct {
	Identity   identity.BoardIdentity
	Timestamp  string // the test report the image belongs to
	SourcePath string
}

// ReportSummary is one row of the report listing.
type ReportSummary struct {
	Filename string
	Reports  int
	// Status is the verdict of the most recent test report, empty when the
	// document holds none or could not be read.
	Status report.Status
	Err    error
}
