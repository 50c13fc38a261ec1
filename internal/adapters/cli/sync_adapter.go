package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/testhub/internal/ports/primary"
)

// SyncAdapter translates sync commands to SyncService calls.
type SyncAdapter struct {
	service primary.SyncService
	out     io.Writer
}

// NewSyncAdapter creates a new SyncAdapter.
func NewSyncAdapter(service primary.SyncService, out io.Writer) *SyncAdapter {
	return &SyncAdapter{service: service, out: out}
}

// Push commits and pushes local changes. A failed push is printed and
// returned so the command exits non-zero.
func (a *SyncAdapter) Push(ctx context.Context, message string) error {
	res := a.service.Push(ctx, message)
	a.PrintResult(res)
	if !res.OK() {
		return res.Err
	}
	return nil
}

// Pull brings in remote changes.
func (a *SyncAdapter) Pull(ctx context.Context) error {
	res := a.service.Pull(ctx)
	a.PrintResult(res)
	if !res.OK() {
		return res.Err
	}
	return nil
}

// Watch pulls every interval until ctx is done.
func (a *SyncAdapter) Watch(ctx context.Context, interval time.Duration) {
	fmt.Fprintf(a.out, "Pulling every %s (Ctrl-C to stop)\n", interval)
	a.service.Watch(ctx, interval, func(res primary.SyncResult) {
		fmt.Fprintf(a.out, "%s ", dimColor.Sprint(time.Now().Format(time.TimeOnly)))
		a.PrintResult(res)
	})
}

// PrintResult writes a one-line summary of a sync outcome.
func (a *SyncAdapter) PrintResult(res primary.SyncResult) {
	if !res.OK() {
		fmt.Fprintf(a.out, "%s %s failed: %v\n", failColor.Sprint("✗"), res.Operation, res.Err)
		return
	}
	switch res.Operation {
	case "push":
		switch {
		case res.Committed:
			fmt.Fprintln(a.out, "✓ Committed and pushed")
		default:
			fmt.Fprintln(a.out, "✓ Nothing to commit, pushed")
		}
	case "pull":
		switch {
		case res.Pulled:
			fmt.Fprintf(a.out, "✓ Pulled %d commit(s)\n", res.Behind)
		default:
			fmt.Fprintln(a.out, "✓ Already up to date")
		}
	}
}
