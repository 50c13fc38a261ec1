package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/cli"
	"github.com/example/testhub/internal/version"
	"github.com/example/testhub/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "testhub",
		Short:   "testhub - production test station for camera boards",
		Version: version.String(),
		Long: `testhub measures boards on a test fixture, keeps one append-only report
document per board and replicates the documents between stations through git.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = wd
			}
			wire.Configure(dir, verbose)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringP("dir", "C", "", "Station directory (default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")

	// Station setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.PlansCmd())
	rootCmd.AddCommand(cli.ParseCmd())

	// Measurement and documents
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.AnnotateCmd())
	rootCmd.AddCommand(cli.CatalogCmd())

	// Station views and replication
	rootCmd.AddCommand(cli.YieldCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.SyncCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
