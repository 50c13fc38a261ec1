// Package cli contains the cobra commands of the station tool.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/wire"
)

// signalContext returns a context cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// PushMessage is the commit message recorded for a completed run.
func PushMessage(id identity.BoardIdentity, status report.Status) string {
	return fmt.Sprintf("%s--%s", id, status)
}

// EditMessage is the generic commit message recorded for a document edit
// that is not a test run, e.g. "Added red tag message: camctrl-0002-a-5".
func EditMessage(action string, kind report.Kind, id identity.BoardIdentity) string {
	if kind != "" {
		action += " " + strings.ReplaceAll(string(kind), "_", " ") + " message"
	}
	return fmt.Sprintf("%s: %s", action, id)
}

// addPushFlag registers --push on a command that edits a document.
func addPushFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("push", false, "Commit and push the reports repository after the edit")
}

// pushAfterEdit pushes the reports repository when --push was given.
// A failed push is printed, not returned; the edit is already saved.
func pushAfterEdit(ctx context.Context, cmd *cobra.Command, message string) {
	if push, _ := cmd.Flags().GetBool("push"); !push {
		return
	}
	res := <-wire.SyncService().PushAsync(ctx, message)
	wire.SyncAdapter().PrintResult(res)
}

func parseKindArg(s string) (report.Kind, error) {
	kind, err := report.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("%w (use redtag or flow)", err)
	}
	return kind, nil
}

func parseIndexArg(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

// waitForEnter returns a channel closed once a line is read from in.
func waitForEnter(in io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		_, _ = bufio.NewReader(in).ReadString('\n')
	}()
	return ch
}
