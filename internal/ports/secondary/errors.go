package secondary

import "errors"

// Errors raised by driven adapters. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when no report document exists for an identity.
	ErrNotFound = errors.New("report not found")

	// ErrAlreadyExists is returned when creating a document that is already present.
	ErrAlreadyExists = errors.New("report already exists")

	// ErrStoreIO wraps failures reading or writing report documents.
	ErrStoreIO = errors.New("report store I/O error")

	// ErrDeviceConnect is returned when the instrument cannot be opened.
	ErrDeviceConnect = errors.New("device connect failed")

	// ErrAcquisitionTimeout is returned when a capture does not complete in time.
	ErrAcquisitionTimeout = errors.New("acquisition timed out")

	// ErrMergeConflict is returned when a pull cannot merge without manual resolution.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrDirtyWorktree is returned when a destructive pull would discard local changes.
	ErrDirtyWorktree = errors.New("uncommitted local changes")

	// ErrNoUpstream is returned when the configured remote branch does not exist.
	ErrNoUpstream = errors.New("remote branch not found")
)
