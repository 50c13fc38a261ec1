package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/wire"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the reusable annotation message catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list <redtag|flow>",
	Short: "List catalog entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		return wire.StationAdapter().CatalogList(context.Background(), kind)
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <redtag|flow> <text...>",
	Short: "Add a catalog entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		return wire.StationAdapter().CatalogAdd(context.Background(), kind, strings.Join(args[1:], " "))
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <redtag|flow> <index>",
	Short: "Remove a catalog entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		index, err := parseIndexArg(args[1])
		if err != nil {
			return err
		}
		return wire.StationAdapter().CatalogRemove(context.Background(), kind, index)
	},
}

var catalogApplyCmd = &cobra.Command{
	Use:   "apply <redtag|flow> <index> <barcode...>",
	Short: "Append a catalog entry as an annotation to many boards",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		index, err := parseIndexArg(args[1])
		if err != nil {
			return err
		}
		sourceFlag, _ := cmd.Flags().GetString("source")
		source, err := report.ParseSource(sourceFlag)
		if err != nil {
			return err
		}
		return wire.StationAdapter().CatalogApply(context.Background(), primary.ApplyCatalogRequest{
			Kind:     kind,
			Index:    index,
			Source:   source,
			Barcodes: args[2:],
		})
	},
}

// CatalogCmd returns the catalog command
func CatalogCmd() *cobra.Command {
	catalogApplyCmd.Flags().StringP("source", "s", "", "Department entering the annotations")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	catalogCmd.AddCommand(catalogApplyCmd)
	return catalogCmd
}
