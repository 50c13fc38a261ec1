package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
)

// PullMode selects how Pull integrates remote changes.
type PullMode string

const (
	// PullFastForward fetches and advances the branch only when it is behind.
	// A diverged branch is merged normally.
	PullFastForward PullMode = "fast-forward"
	// PullResetMerge merges the remote branch tolerating unrelated histories.
	// It refuses to run over uncommitted local changes.
	PullResetMerge PullMode = "reset-merge"
)

// ParsePullMode maps a configured value to a PullMode. Empty means fast-forward.
func ParsePullMode(s string) (PullMode, error) {
	switch PullMode(s) {
	case "", PullFastForward:
		return PullFastForward, nil
	case PullResetMerge:
		return PullResetMerge, nil
	}
	return "", fmt.Errorf("unknown pull mode %q (want %s or %s)", s, PullFastForward, PullResetMerge)
}

// SyncServiceImpl implements the SyncService interface.
// Git operations on the shared working tree are serialized.
type SyncServiceImpl struct {
	remote  secondary.SyncRemote
	runLog  secondary.RunLogRepository
	mode    PullMode
	station string
	logger  *zap.Logger

	mu sync.Mutex
}

var _ primary.SyncService = (*SyncServiceImpl)(nil)

// NewSyncService creates a new SyncService with injected dependencies.
// runLog may be nil when sync attempts are not recorded.
func NewSyncService(remote secondary.SyncRemote, runLog secondary.RunLogRepository, mode PullMode, station string, logger *zap.Logger) *SyncServiceImpl {
	return &SyncServiceImpl{
		remote:  remote,
		runLog:  runLog,
		mode:    mode,
		station: station,
		logger:  logger,
	}
}

// Push stages all changes, commits them with message and pushes.
// A clean tree skips the commit but still pushes earlier local commits.
func (s *SyncServiceImpl) Push(ctx context.Context, message string) primary.SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := primary.SyncResult{Operation: "push"}
	defer func() { s.finish(ctx, res, message) }()

	committed, err := s.remote.CommitAll(ctx, message)
	if err != nil {
		res.Err = &primary.SyncError{Operation: res.Operation, Step: "commit", Err: err}
		return res
	}
	res.Committed = committed

	if err := s.remote.Push(ctx); err != nil {
		res.Err = &primary.SyncError{Operation: res.Operation, Step: "push", Err: err}
		return res
	}
	res.Pushed = true
	return res
}

// Pull brings in the latest changes from the remote according to the pull mode.
// Merge conflicts are aborted and reported; they are never resolved here.
func (s *SyncServiceImpl) Pull(ctx context.Context) primary.SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := primary.SyncResult{Operation: "pull"}
	defer func() { s.finish(ctx, res, string(s.mode)) }()

	if s.mode == PullResetMerge {
		dirty, err := s.remote.IsDirty(ctx)
		if err != nil {
			res.Err = &primary.SyncError{Operation: res.Operation, Step: "status", Err: err}
			return res
		}
		if dirty {
			res.Err = &primary.SyncError{Operation: res.Operation, Step: "reset", Err: secondary.ErrDirtyWorktree}
			return res
		}
	}

	if err := s.remote.Fetch(ctx); err != nil {
		res.Err = &primary.SyncError{Operation: res.Operation, Step: "fetch", Err: err}
		return res
	}

	ahead, behind, err := s.remote.AheadBehind(ctx)
	if err != nil {
		res.Err = &primary.SyncError{Operation: res.Operation, Step: "status", Err: err}
		return res
	}
	res.Ahead, res.Behind = ahead, behind
	if behind == 0 {
		return res
	}

	switch {
	case s.mode == PullResetMerge:
		err = s.remote.Merge(ctx, true)
	case ahead > 0:
		err = s.remote.Merge(ctx, false)
	default:
		err = s.remote.FastForward(ctx)
	}
	if err != nil {
		res.Err = &primary.SyncError{Operation: res.Operation, Step: "merge", Err: err}
		return res
	}
	res.Pulled = true
	return res
}

// PushAsync runs Push on its own goroutine. The channel yields one result.
func (s *SyncServiceImpl) PushAsync(ctx context.Context, message string) <-chan primary.SyncResult {
	out := make(chan primary.SyncResult, 1)
	go func() {
		defer close(out)
		out <- s.Push(ctx, message)
	}()
	return out
}

// PullAsync runs Pull on its own goroutine. The channel yields one result.
func (s *SyncServiceImpl) PullAsync(ctx context.Context) <-chan primary.SyncResult {
	out := make(chan primary.SyncResult, 1)
	go func() {
		defer close(out)
		out <- s.Pull(ctx)
	}()
	return out
}

// Watch pulls immediately and then every interval until ctx is done.
func (s *SyncServiceImpl) Watch(ctx context.Context, interval time.Duration, report func(primary.SyncResult)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := s.Pull(ctx)
		if report != nil && ctx.Err() == nil {
			report(res)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// finish logs the outcome and records the attempt. Neither may fail the sync.
func (s *SyncServiceImpl) finish(ctx context.Context, res primary.SyncResult, message string) {
	fields := []zap.Field{
		zap.String("operation", res.Operation),
		zap.Bool("committed", res.Committed),
		zap.Bool("pushed", res.Pushed),
		zap.Bool("pulled", res.Pulled),
		zap.Int("behind", res.Behind),
	}
	if res.Err != nil {
		s.logger.Warn("sync failed", append(fields, zap.String("step", res.Err.Step), zap.Error(res.Err.Err))...)
	} else {
		s.logger.Info("sync complete", fields...)
	}

	if s.runLog == nil {
		return
	}
	rec := &secondary.SyncRecord{
		ID:        uuid.NewString(),
		Operation: res.Operation,
		Message:   message,
		OK:        res.OK(),
		Station:   s.station,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if err := s.runLog.RecordSync(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("failed to record sync attempt", zap.Error(err))
	}
}
