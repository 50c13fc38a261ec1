package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect and manage per-board report documents",
}

var reportShowCmd = &cobra.Command{
	Use:   "show <barcode>",
	Short: "Show every run and annotation of a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ReportAdapter().Show(context.Background(), identity.Parse(args[0]))
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List report documents with their latest verdict",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		return wire.ReportAdapter().List(context.Background(), filter)
	},
}

var reportCreateCmd = &cobra.Command{
	Use:   "create <barcode>",
	Short: "Create the skeleton document for a board with no report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		session := primary.NewSession(args[0], wire.Config().Station)
		if err := wire.ReportAdapter().Create(ctx, session); err != nil {
			return err
		}
		pushAfterEdit(ctx, cmd, EditMessage("Created report", "", session.Identity))
		return nil
	},
}

var reportAttachCmd = &cobra.Command{
	Use:   "attach <barcode> <timestamp> <image>",
	Short: "Attach an image to one test report of a board",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := identity.Parse(args[0])
		err := wire.ReportAdapter().Attach(ctx, primary.AttachImageRequest{
			Identity:   id,
			Timestamp:  args[1],
			SourcePath: args[2],
		})
		if err != nil {
			return err
		}
		pushAfterEdit(ctx, cmd, EditMessage("Attached image", "", id))
		return nil
	},
}

var reportWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print report documents as they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return wire.ReportAdapter().Watch(ctx)
	},
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	addPushFlag(reportCreateCmd)
	addPushFlag(reportAttachCmd)

	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportCreateCmd)
	reportCmd.AddCommand(reportAttachCmd)
	reportCmd.AddCommand(reportWatchCmd)
	return reportCmd
}
