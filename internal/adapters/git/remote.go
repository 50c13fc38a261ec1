// Package git adapts the git binary as the replicated log behind report sync.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/example/testhub/internal/ports/secondary"
)

// Runner executes one git command in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

// Run executes git with args in dir. Errors carry git's stderr.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Remote implements secondary.SyncRemote over a git working tree.
type Remote struct {
	runner Runner
	dir    string
	remote string
	branch string
}

var _ secondary.SyncRemote = (*Remote)(nil)

// NewRemote creates a remote for the repository at dir tracking remote/branch.
// A nil runner uses the git binary.
func NewRemote(dir, remote, branch string, runner Runner) *Remote {
	if runner == nil {
		runner = ExecRunner{}
	}
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}
	return &Remote{runner: runner, dir: dir, remote: remote, branch: branch}
}

func (r *Remote) upstream() string {
	return r.remote + "/" + r.branch
}

func (r *Remote) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.dir, args...)
}

// IsDirty checks if the working tree has uncommitted changes.
func (r *Remote) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAll stages everything and commits it. Nothing staged is not an error.
func (r *Remote) CommitAll(ctx context.Context, message string) (bool, error) {
	if _, err := r.git(ctx, "add", "--all"); err != nil {
		return false, err
	}
	dirty, err := r.IsDirty(ctx)
	if err != nil {
		return false, err
	}
	if !dirty {
		return false, nil
	}
	if _, err := r.git(ctx, "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// Push pushes the current branch to the configured remote.
func (r *Remote) Push(ctx context.Context) error {
	_, err := r.git(ctx, "push", r.remote, "HEAD:"+r.branch)
	return err
}

// Fetch updates the remote tracking refs.
func (r *Remote) Fetch(ctx context.Context) error {
	_, err := r.git(ctx, "fetch", r.remote)
	return err
}

// AheadBehind returns how many commits HEAD is ahead of and behind the remote branch.
// A remote branch missing after fetch is ErrNoUpstream.
func (r *Remote) AheadBehind(ctx context.Context) (int, int, error) {
	if _, err := r.git(ctx, "rev-parse", "--verify", "--quiet", r.upstream()); err != nil {
		return 0, 0, fmt.Errorf("%w: %s", secondary.ErrNoUpstream, r.upstream())
	}
	out, err := r.git(ctx, "rev-list", "--left-right", "--count", r.upstream()+"...HEAD")
	if err != nil {
		return 0, 0, err
	}
	parts := strings.Fields(strings.TrimSpace(out))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	behind, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	return ahead, behind, nil
}

// FastForward advances the local branch to the remote branch.
func (r *Remote) FastForward(ctx context.Context) error {
	_, err := r.git(ctx, "merge", "--ff-only", r.upstream())
	return err
}

// Merge merges the remote branch. On a textual conflict the merge is
// aborted and the conflicted files are named in an ErrMergeConflict.
func (r *Remote) Merge(ctx context.Context, allowUnrelated bool) error {
	args := []string{"merge", "--no-edit"}
	if allowUnrelated {
		args = append(args, "--allow-unrelated-histories")
	}
	args = append(args, r.upstream())

	_, mergeErr := r.git(ctx, args...)
	if mergeErr == nil {
		return nil
	}

	out, err := r.git(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil || strings.TrimSpace(out) == "" {
		return mergeErr
	}
	files := strings.Fields(out)
	if _, err := r.git(ctx, "merge", "--abort"); err != nil {
		return fmt.Errorf("%w: %s (merge --abort failed: %v)", secondary.ErrMergeConflict, strings.Join(files, ", "), err)
	}
	return fmt.Errorf("%w: %s", secondary.ErrMergeConflict, strings.Join(files, ", "))
}
