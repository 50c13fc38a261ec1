package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/example/testhub/internal/ports/secondary"
)

// DefaultDebounce coalesces the burst of events produced by one atomic save
// or one git checkout.
const DefaultDebounce = 250 * time.Millisecond

// ReportWatcher implements secondary.ReportWatcher with fsnotify on the reports root.
type ReportWatcher struct {
	root     string
	debounce time.Duration
	logger   *zap.Logger
}

var _ secondary.ReportWatcher = (*ReportWatcher)(nil)

// NewReportWatcher creates a watcher for the report documents under root.
func NewReportWatcher(root string, debounce time.Duration, logger *zap.Logger) *ReportWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ReportWatcher{root: root, debounce: debounce, logger: logger}
}

// Watch streams settled changes to .json documents until ctx is done.
func (w *ReportWatcher) Watch(ctx context.Context) (<-chan secondary.ReportChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	out := make(chan secondary.ReportChange)
	go w.run(ctx, watcher, out)
	return out, nil
}

func (w *ReportWatcher) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- secondary.ReportChange) {
	defer close(out)
	defer watcher.Close()

	pending := make(map[string]pendingChange)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
				continue
			}
			removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			pending[name] = pendingChange{at: time.Now(), removed: removed}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("report watcher error", zap.Error(err))

		case <-ticker.C:
			now := time.Now()
			for name, p := range pending {
				if now.Sub(p.at) < w.debounce {
					continue
				}
				delete(pending, name)
				select {
				case out <- secondary.ReportChange{Filename: name, Removed: p.removed}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

type pendingChange struct {
	at      time.Time
	removed bool
}
