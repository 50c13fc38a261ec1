package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/wire"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Manage red-tag and process-flow annotations",
	Long:  "Append, edit and list annotations. The kind argument is redtag or flow.",
}

var annotateAddCmd = &cobra.Command{
	Use:   "add <redtag|flow> <barcode> <text...>",
	Short: "Append an annotation to a board",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		sourceFlag, _ := cmd.Flags().GetString("source")
		source, err := report.ParseSource(sourceFlag)
		if err != nil {
			return err
		}
		ctx := context.Background()
		id := identity.Parse(args[1])
		err = wire.AnnotationAdapter().Add(ctx, primary.AppendAnnotationRequest{
			Identity: id,
			Kind:     kind,
			Source:   source,
			Text:     strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		pushAfterEdit(ctx, cmd, EditMessage("Added", kind, id))
		return nil
	},
}

var annotateUpdateCmd = &cobra.Command{
	Use:   "update <redtag|flow> <barcode> <index> <text...>",
	Short: "Replace the text of an annotation",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		index, err := parseIndexArg(args[2])
		if err != nil {
			return err
		}
		ctx := context.Background()
		id := identity.Parse(args[1])
		err = wire.AnnotationAdapter().Update(ctx, primary.UpdateAnnotationRequest{
			Identity: id,
			Kind:     kind,
			Index:    index,
			Text:     strings.Join(args[3:], " "),
		})
		if err != nil {
			return err
		}
		pushAfterEdit(ctx, cmd, EditMessage("Edited", kind, id))
		return nil
	},
}

var annotateListCmd = &cobra.Command{
	Use:   "list <redtag|flow> <barcode>",
	Short: "List the annotations of a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		return wire.AnnotationAdapter().List(context.Background(), identity.Parse(args[1]), kind)
	},
}

// AnnotateCmd returns the annotate command
func AnnotateCmd() *cobra.Command {
	annotateAddCmd.Flags().StringP("source", "s", "", "Department entering the annotation (production, assembly, engineer)")
	addPushFlag(annotateAddCmd)
	addPushFlag(annotateUpdateCmd)

	annotateCmd.AddCommand(annotateAddCmd)
	annotateCmd.AddCommand(annotateUpdateCmd)
	annotateCmd.AddCommand(annotateListCmd)
	return annotateCmd
}
