// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
)

// ReportRepository defines the secondary port for per-board report documents.
// Every write replaces the whole document; there is no concurrency token.
type ReportRepository interface {
	// Load retrieves the document for an identity. Returns ErrNotFound when absent.
	Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error)

	// Save replaces the document for an identity. The write is all-or-nothing.
	Save(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error

	// Create writes a new document. Returns ErrAlreadyExists if one is present.
	Create(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error

	// Exists reports whether a document is stored for the identity.
	Exists(ctx context.Context, id identity.BoardIdentity) (bool, error)

	// List returns the document filenames under the reports root, sorted,
	// keeping those containing filter (case-insensitive) when filter is set.
	List(ctx context.Context, filter string) ([]string, error)

	// LoadFile retrieves a document by its filename as returned by List.
	LoadFile(ctx context.Context, filename string) (*report.ReportFile, error)

	// StoreImage copies the file at srcPath into the image directory under
	// name and returns the stored filename.
	StoreImage(ctx context.Context, srcPath, name string) (string, error)

	// Path returns the canonical document path for an identity.
	Path(id identity.BoardIdentity) string

	// Root returns the reports root directory.
	Root() string
}

// RunRecord represents a completed measurement run in the station history.
type RunRecord struct {
	ID          string
	Identity    string
	Barcode     string
	Status      string
	Timestamp   string
	Station     string
	ResultCount int
	CreatedAt   string
}

// RunFilters contains filter options for querying the station history.
type RunFilters struct {
	Identity string
	Status   string
	Limit    int
}

// SyncRecord represents one sync attempt.
type SyncRecord struct {
	ID        string
	Operation string // "push" or "pull"
	Message   string
	OK        bool
	Error     string
	Station   string
	CreatedAt string
}

// RunLogRepository defines the secondary port for the station run history.
type RunLogRepository interface {
	// RecordRun persists a completed run.
	RecordRun(ctx context.Context, run *RunRecord) error

	// ListRuns retrieves runs matching the filters, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*RunRecord, error)

	// RecordSync persists a sync attempt.
	RecordSync(ctx context.Context, rec *SyncRecord) error

	// ListSync retrieves the most recent sync attempts, newest first.
	ListSync(ctx context.Context, limit int) ([]*SyncRecord, error)
}

// Catalog is the set of reusable annotation texts kept by a station.
type Catalog struct {
	RedTag      []string `json:"red_tag"`
	ProcessFlow []string `json:"process_flow"`
}

// CatalogRepository defines the secondary port for the message catalog.
type CatalogRepository interface {
	// Load returns the catalog, or an empty catalog if none is stored.
	Load(ctx context.Context) (*Catalog, error)

	// Save replaces the catalog.
	Save(ctx context.Context, catalog *Catalog) error
}
