package primary

import (
	"errors"
	"fmt"
)

// ErrSync marks every failure reported by the sync layer.
var ErrSync = errors.New("sync failed")

// SyncError is a non-fatal sync failure left for operator retry.
type SyncError struct {
	Operation string // "push" or "pull"
	Step      string // the git step that failed
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Step, e.Err)
}

// Unwrap returns both ErrSync and the underlying cause for errors.Is.
func (e *SyncError) Unwrap() []error {
	return []error{ErrSync, e.Err}
}
