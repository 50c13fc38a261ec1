package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/core/yield"
	"github.com/example/testhub/internal/ports/primary"
)

// StationAdapter presents station-wide views: yields, history and the message catalog.
type StationAdapter struct {
	yields  primary.YieldService
	history primary.HistoryService
	catalog primary.CatalogService
	out     io.Writer
}

// NewStationAdapter creates a new StationAdapter.
func NewStationAdapter(yields primary.YieldService, history primary.HistoryService, catalog primary.CatalogService, out io.Writer) *StationAdapter {
	return &StationAdapter{yields: yields, history: history, catalog: catalog, out: out}
}

// Yield prints the yield summary and failure pareto for filter.
func (a *StationAdapter) Yield(ctx context.Context, filter yield.Filter) error {
	s, err := a.yields.Compute(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to compute yield: %w", err)
	}

	fmt.Fprintf(a.out, "\nBoards: %d  Tested: %d  Passed: %d  Failed: %d\n", s.Boards, s.Tested, s.Passed, s.Failed)
	if s.Tested == 0 {
		fmt.Fprintln(a.out, "Yield:  -")
		return nil
	}
	fmt.Fprintf(a.out, "Yield:  %.1f%%\n", s.Percent)

	if len(s.FailureModes) > 0 {
		fmt.Fprintf(a.out, "\n%-24s %s\n", "FAILED TEST", "BOARDS")
		fmt.Fprintln(a.out, rule)
		for _, m := range s.FailureModes {
			fmt.Fprintf(a.out, "%-24s %d\n", m.Description, m.Count)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Runs prints the recent run history.
func (a *StationAdapter) Runs(ctx context.Context, filters primary.HistoryFilters) error {
	runs, err := a.history.ListRuns(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-17s %-32s %-8s %-6s %s\n", "TIMESTAMP", "IDENTITY", "STATUS", "TESTS", "STATION")
	fmt.Fprintln(a.out, rule)
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-17s %-32s %-8s %-6d %s\n", r.Timestamp, r.Identity, Badge(report.Status(r.Status)), r.ResultCount, r.Station)
	}
	fmt.Fprintln(a.out)
	return nil
}

// SyncHistory prints recent sync attempts.
func (a *StationAdapter) SyncHistory(ctx context.Context, limit int) error {
	attempts, err := a.history.ListSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list sync attempts: %w", err)
	}
	if len(attempts) == 0 {
		fmt.Fprintln(a.out, "No sync attempts recorded")
		return nil
	}
	for _, s := range attempts {
		mark := passColor.Sprint("✓")
		detail := s.Message
		if !s.OK {
			mark = failColor.Sprint("✗")
			detail = s.Error
		}
		fmt.Fprintf(a.out, "%s %s %-4s %s\n", mark, s.CreatedAt, s.Operation, detail)
	}
	return nil
}

// CatalogList prints the catalog entries of one kind.
func (a *StationAdapter) CatalogList(ctx context.Context, kind report.Kind) error {
	entries, err := a.catalog.List(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No %s catalog entries\n", kindLabel(kind))
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(a.out, "  [%d] %s\n", i, e)
	}
	return nil
}

// CatalogAdd adds a catalog entry.
func (a *StationAdapter) CatalogAdd(ctx context.Context, kind report.Kind, text string) error {
	if err := a.catalog.Add(ctx, kind, text); err != nil {
		return fmt.Errorf("failed to add catalog entry: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Added %s catalog entry\n", kindLabel(kind))
	return nil
}

// CatalogRemove removes a catalog entry.
func (a *StationAdapter) CatalogRemove(ctx context.Context, kind report.Kind, index int) error {
	if err := a.catalog.Remove(ctx, kind, index); err != nil {
		return fmt.Errorf("failed to remove catalog entry: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Removed %s catalog entry [%d]\n", kindLabel(kind), index)
	return nil
}

// CatalogApply applies a catalog entry to many boards, reporting each outcome.
// It fails when any board could not be annotated.
func (a *StationAdapter) CatalogApply(ctx context.Context, req primary.ApplyCatalogRequest) error {
	outcomes, err := a.catalog.Apply(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to apply catalog entry: %w", err)
	}
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(a.out, "%s %s: %v\n", failColor.Sprint("✗"), o.Barcode, o.Err)
			continue
		}
		fmt.Fprintf(a.out, "%s %s\n", passColor.Sprint("✓"), o.Identity)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d boards not annotated", failed, len(outcomes))
	}
	return nil
}
