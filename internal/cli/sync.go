package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/wire"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replicate report documents through the shared git repository",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Commit all local report changes and push them",
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		return wire.SyncAdapter().Push(context.Background(), message)
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Bring in report changes from other stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SyncAdapter().Pull(context.Background())
	},
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Pull periodically until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			configured, err := wire.Config().Interval()
			if err != nil {
				return err
			}
			interval = configured
		}

		ctx, cancel := signalContext()
		defer cancel()
		wire.SyncAdapter().Watch(ctx, interval)
		return nil
	},
}

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	syncPushCmd.Flags().StringP("message", "m", "station sync", "Commit message")
	syncWatchCmd.Flags().Duration("interval", 0, "Pull interval (default: sync_interval from config)")

	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncWatchCmd)
	return syncCmd
}
