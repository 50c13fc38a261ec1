package primary

import (
	"context"
	"time"
)

// SyncResult reports the outcome of a sync operation. Failures are carried in
// Err and never returned as a Go error.
type SyncResult struct {
	Operation string
	Committed bool
	Pushed    bool
	Pulled    bool
	Behind    int
	Ahead     int
	Err       *SyncError
}

// OK reports whether the operation succeeded.
func (r SyncResult) OK() bool {
	return r.Err == nil
}

// SyncService defines the primary port for the replicated report log.
type SyncService interface {
	// Push stages all changes, commits them with message and pushes.
	Push(ctx context.Context, message string) SyncResult

	// Pull brings in the latest changes from the remote.
	Pull(ctx context.Context) SyncResult

	// PushAsync runs Push off the calling goroutine.
	PushAsync(ctx context.Context, message string) <-chan SyncResult

	// PullAsync runs Pull off the calling goroutine.
	PullAsync(ctx context.Context) <-chan SyncResult

	// Watch pulls every interval until ctx is done, reporting each result.
	Watch(ctx context.Context, interval time.Duration, report func(SyncResult))
}
