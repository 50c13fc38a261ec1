package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
)

// ReportAdapter translates report commands to ReportService calls.
type ReportAdapter struct {
	reports primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter.
func NewReportAdapter(reports primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{reports: reports, out: out}
}

// Show prints the full document of a board.
func (a *ReportAdapter) Show(ctx context.Context, id identity.BoardIdentity) error {
	doc, err := a.reports.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report for %s: %w", id, err)
	}
	PrintDocument(a.out, id, doc)
	return nil
}

// PrintDocument writes every section of doc.
func PrintDocument(out io.Writer, id identity.BoardIdentity, doc *report.ReportFile) {
	fmt.Fprintf(out, "\nBoard: %s\n", id)
	fmt.Fprintln(out, rule)

	if len(doc.TestReports) == 0 {
		fmt.Fprintln(out, "No test reports")
	}
	for _, tr := range doc.TestReports {
		fmt.Fprintf(out, "%s  %-28s %s\n", tr.Timestamp, tr.Barcode, Badge(tr.OverallStatus))
		for _, r := range tr.TestResults {
			PrintResult(out, r)
		}
		for _, img := range doc.Images[tr.Timestamp] {
			fmt.Fprintf(out, "    image: %s\n", img)
		}
	}

	printAnnotations(out, "Red tags", doc.RedTagMessages)
	printAnnotations(out, "Process flow", doc.ProcessFlowMessages)
	fmt.Fprintln(out)
}

// PrintResult writes one channel verdict.
func PrintResult(out io.Writer, r report.TestResult) {
	fmt.Fprintf(out, "  %3d  %-18s %8.3f V  [%.3f, %.3f]  %s\n",
		r.TestNumber, r.Description, r.MeasuredValue, r.LowerLimit, r.UpperLimit, Badge(r.Conclusion))
}

func printAnnotations(out io.Writer, title string, list []report.Annotation) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for i, a := range list {
		source := ""
		if a.Source != "" {
			source = " (" + string(a.Source) + ")"
		}
		fmt.Fprintf(out, "  [%d] %s%s  %s\n", i, a.Timestamp, source, a.Text)
	}
}

// List prints the stored documents with the badge of their latest run.
func (a *ReportAdapter) List(ctx context.Context, filter string) error {
	summaries, err := a.reports.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "No reports found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-40s %-6s %s\n", "DOCUMENT", "RUNS", "LATEST")
	fmt.Fprintln(a.out, rule)
	for _, s := range summaries {
		if s.Err != nil {
			fmt.Fprintf(a.out, "%-40s %-6s %s\n", s.Filename, "?", warnColor.Sprint("unreadable"))
			continue
		}
		fmt.Fprintf(a.out, "%-40s %-6d %s\n", s.Filename, s.Reports, Badge(s.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Create seeds the skeleton document for a board.
func (a *ReportAdapter) Create(ctx context.Context, session primary.Session) error {
	if _, err := a.reports.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Created %s\n", session.Identity.Filename())
	return nil
}

// Attach records an image against one test report of a board.
func (a *ReportAdapter) Attach(ctx context.Context, req primary.AttachImageRequest) error {
	doc, err := a.reports.AttachImage(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to attach image: %w", err)
	}
	images := doc.Images[req.Timestamp]
	fmt.Fprintf(a.out, "✓ Attached %s to %s run %s\n", images[len(images)-1], req.Identity, req.Timestamp)
	return nil
}

// Watch prints changed documents until ctx is done.
func (a *ReportAdapter) Watch(ctx context.Context) error {
	changes, err := a.reports.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch reports: %w", err)
	}
	fmt.Fprintln(a.out, "Watching for report changes (Ctrl-C to stop)")
	for change := range changes {
		if change.Removed {
			fmt.Fprintf(a.out, "- %s\n", change.Filename)
			continue
		}
		fmt.Fprintf(a.out, "~ %s\n", change.Filename)
	}
	return nil
}
