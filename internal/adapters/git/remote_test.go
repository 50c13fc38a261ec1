package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/testhub/internal/ports/secondary"
)

// fakeRunner answers git commands from a script keyed by the joined args.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func newFake() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, errs: map[string]error{}}
}

func TestRemote_CommitAll(t *testing.T) {
	t.Run("commits staged changes", func(t *testing.T) {
		f := newFake()
		f.outputs["status --porcelain"] = "M  camctrl-0002-a-1.json\n"
		r := NewRemote("/repo", "", "", f)

		committed, err := r.CommitAll(context.Background(), "camctrl-0002-a-1--Pass")
		if err != nil || !committed {
			t.Fatalf("CommitAll = %v, %v", committed, err)
		}
		want := []string{"add --all", "status --porcelain", "commit -m camctrl-0002-a-1--Pass"}
		if diff := cmp.Diff(want, f.calls); diff != "" {
			t.Errorf("calls mismatch:\n%s", diff)
		}
	})

	t.Run("clean tree skips commit", func(t *testing.T) {
		f := newFake()
		r := NewRemote("/repo", "", "", f)

		committed, err := r.CommitAll(context.Background(), "msg")
		if err != nil || committed {
			t.Fatalf("CommitAll = %v, %v", committed, err)
		}
		if len(f.calls) != 2 {
			t.Errorf("expected no commit, calls %v", f.calls)
		}
	})
}

func TestRemote_PushFetchDefaults(t *testing.T) {
	f := newFake()
	r := NewRemote("/repo", "", "", f)
	ctx := context.Background()

	if err := r.Push(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Fetch(ctx); err != nil {
		t.Fatal(err)
	}
	want := []string{"push origin HEAD:main", "fetch origin"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls mismatch:\n%s", diff)
	}
}

func TestRemote_AheadBehind(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		err        error
		verifyErr  error
		wantAhead  int
		wantBehind int
		wantErr    bool
		wantIs     error
	}{
		{name: "behind", output: "3\t0\n", wantBehind: 3},
		{name: "diverged", output: "1\t2\n", wantAhead: 2, wantBehind: 1},
		{name: "missing remote branch", verifyErr: errors.New("exit status 1"), wantErr: true, wantIs: secondary.ErrNoUpstream},
		{name: "rev-list failure", err: errors.New("bad object"), wantErr: true},
		{name: "garbage", output: "x y", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			key := "rev-list --left-right --count station/main...HEAD"
			f.outputs[key] = tt.output
			if tt.err != nil {
				f.errs[key] = tt.err
			}
			if tt.verifyErr != nil {
				f.errs["rev-parse --verify --quiet station/main"] = tt.verifyErr
			}
			r := NewRemote("/repo", "station", "main", f)

			ahead, behind, err := r.AheadBehind(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Fatalf("expected %v, got %v", tt.wantIs, err)
			}
			if ahead != tt.wantAhead || behind != tt.wantBehind {
				t.Errorf("ahead/behind = %d/%d, want %d/%d", ahead, behind, tt.wantAhead, tt.wantBehind)
			}
		})
	}
}

func TestRemote_Merge(t *testing.T) {
	t.Run("unrelated histories flag", func(t *testing.T) {
		f := newFake()
		r := NewRemote("/repo", "", "", f)

		if err := r.Merge(context.Background(), true); err != nil {
			t.Fatal(err)
		}
		want := []string{"merge --no-edit --allow-unrelated-histories origin/main"}
		if diff := cmp.Diff(want, f.calls); diff != "" {
			t.Errorf("calls mismatch:\n%s", diff)
		}
	})

	t.Run("conflict aborts", func(t *testing.T) {
		f := newFake()
		f.errs["merge --no-edit origin/main"] = errors.New("exit status 1")
		f.outputs["diff --name-only --diff-filter=U"] = "camctrl-0002-a-1.json\n"
		r := NewRemote("/repo", "", "", f)

		err := r.Merge(context.Background(), false)
		if !errors.Is(err, secondary.ErrMergeConflict) {
			t.Fatalf("expected ErrMergeConflict, got %v", err)
		}
		if !strings.Contains(err.Error(), "camctrl-0002-a-1.json") {
			t.Errorf("conflicted file not named: %v", err)
		}
		if f.calls[len(f.calls)-1] != "merge --abort" {
			t.Errorf("expected merge --abort, calls %v", f.calls)
		}
	})

	t.Run("non-conflict failure passes through", func(t *testing.T) {
		f := newFake()
		mergeErr := errors.New("not something we can merge")
		f.errs["merge --no-edit origin/main"] = mergeErr
		r := NewRemote("/repo", "", "", f)

		err := r.Merge(context.Background(), false)
		if !errors.Is(err, mergeErr) || errors.Is(err, secondary.ErrMergeConflict) {
			t.Errorf("unexpected error %v", err)
		}
	})
}
