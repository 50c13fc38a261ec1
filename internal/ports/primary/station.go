package primary

import (
	"context"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/core/yield"
)

// YieldService defines the primary port for build yield statistics.
type YieldService interface {
	// Compute loads every matching document and derives the yield summary.
	Compute(ctx context.Context, filter yield.Filter) (*yield.Summary, error)
}

// HistoryService defines the primary port for the station run history.
type HistoryService interface {
	// ListRuns returns recent runs, newest first.
	ListRuns(ctx context.Context, filters HistoryFilters) ([]*Run, error)

	// ListSync returns recent sync attempts, newest first.
	ListSync(ctx context.Context, limit int) ([]*SyncAttempt, error)
}

// HistoryFilters contains filter options for the run history.
type HistoryFilters struct {
	Identity string
	Status   string
	Limit    int
}

// Run is one completed measurement run as recorded by the station.
type Run struct {
	ID          string
	Identity    string
	Barcode     string
	Status      string
	Timestamp   string
	Station     string
	ResultCount int
}

// SyncAttempt is one recorded sync operation.
type SyncAttempt struct {
	Operation string
	Message   string
	OK        bool
	Error     string
	Station   string
	CreatedAt string
}

// CatalogService defines the primary port for the reusable message catalog.
type CatalogService interface {
	// List returns the catalog entries of one kind.
	List(ctx context.Context, kind report.Kind) ([]string, error)

	// Add appends an entry, ignoring exact duplicates.
	Add(ctx context.Context, kind report.Kind, text string) error

	// Remove deletes the entry at index.
	Remove(ctx context.Context, kind report.Kind, index int) error

	// Apply appends the catalog entry at index as an annotation to every
	// barcode, returning one outcome per barcode in input order.
	Apply(ctx context.Context, req ApplyCatalogRequest) ([]ApplyOutcome, error)
}

// ApplyCatalogRequest contains parameters for applying a catalog entry.
type ApplyCatalogRequest struct {
	Kind     report.Kind
	Index    int
	Source   report.Source
	Barcodes []string
}

// ApplyOutcome is the result of applying a catalog entry to one board.
type ApplyOutcome struct {
	Barcode  string
	Identity identity.BoardIdentity
	Err      error
}
