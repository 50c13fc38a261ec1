package secondary

import "context"

// SyncRemote defines the secondary port for the version-control remote that
// replicates the reports root between stations.
type SyncRemote interface {
	// IsDirty reports whether the working tree has uncommitted changes.
	IsDirty(ctx context.Context) (bool, error)

	// CommitAll stages every change and commits it with message.
	// Returns false without error when there was nothing to commit.
	CommitAll(ctx context.Context, message string) (bool, error)

	// Push pushes the current branch to the configured remote.
	Push(ctx context.Context) error

	// Fetch updates the remote tracking refs.
	Fetch(ctx context.Context) error

	// AheadBehind returns commit counts relative to the remote branch.
	AheadBehind(ctx context.Context) (ahead, behind int, err error)

	// FastForward advances the local branch to the remote branch.
	FastForward(ctx context.Context) error

	// Merge merges the remote branch. A textual conflict aborts the merge,
	// leaving the local branch untouched, and returns an error wrapping ErrMergeConflict.
	Merge(ctx context.Context, allowUnrelated bool) error
}

// ReportChange is emitted when a report document changes on disk.
type ReportChange struct {
	Filename string
	Removed  bool
}

// ReportWatcher defines the secondary port for report directory notifications.
type ReportWatcher interface {
	// Watch streams changes until ctx is done; the channel is then closed.
	Watch(ctx context.Context) (<-chan ReportChange, error)
}
