package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/core/yield"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/wire"
)

// YieldCmd returns the yield command
func YieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yield",
		Short: "Show build yield and the failing-test pareto",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			rev, _ := cmd.Flags().GetString("rev")
			variant, _ := cmd.Flags().GetString("variant")
			return wire.StationAdapter().Yield(context.Background(), yield.Filter{
				Name:     name,
				Revision: rev,
				Variant:  variant,
			})
		},
	}
	cmd.Flags().String("name", "", "Board name")
	cmd.Flags().String("rev", "", "Board revision")
	cmd.Flags().String("variant", "", "Board variant")
	return cmd
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs and sync attempts recorded by this station",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			limit, _ := cmd.Flags().GetInt("limit")
			barcode, _ := cmd.Flags().GetString("board")
			status, _ := cmd.Flags().GetString("status")
			showSync, _ := cmd.Flags().GetBool("sync")

			adapter := wire.StationAdapter()
			if showSync {
				return adapter.SyncHistory(ctx, limit)
			}
			filters := primary.HistoryFilters{Status: status, Limit: limit}
			if barcode != "" {
				filters.Identity = primary.NewSession(barcode, "").Identity.String()
			}
			return adapter.Runs(ctx, filters)
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum entries")
	cmd.Flags().String("board", "", "Only runs of this barcode's board")
	cmd.Flags().String("status", "", "Only runs with this verdict (Pass, Fail)")
	cmd.Flags().Bool("sync", false, "Show sync attempts instead of runs")
	return cmd
}
