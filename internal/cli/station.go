package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/testhub/internal/config"
	"github.com/example/testhub/internal/db"
	"github.com/example/testhub/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a test station",
		Long: `Write .testhub/config.json in the station directory, create the reports
root and initialize the station history database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.StationDir()
			_, err := config.LoadConfig(dir)
			switch {
			case err == nil:
				fmt.Printf("Config already present at %s\n", config.Path(dir))
			case errors.Is(err, os.ErrNotExist):
				cfg := config.Default(dir)
				if v, _ := cmd.Flags().GetString("reports"); v != "" {
					cfg.ReportsRoot = v
				}
				if v, _ := cmd.Flags().GetString("station"); v != "" {
					cfg.Station = v
				}
				if v, _ := cmd.Flags().GetString("remote"); v != "" {
					cfg.Remote = v
				}
				if v, _ := cmd.Flags().GetString("branch"); v != "" {
					cfg.Branch = v
				}
				if v, _ := cmd.Flags().GetString("pull-mode"); v != "" {
					cfg.PullMode = v
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", config.Path(dir))
			default:
				return err
			}

			cfg := wire.Config()
			if err := os.MkdirAll(cfg.ReportsRoot, 0755); err != nil {
				return fmt.Errorf("failed to create reports root: %w", err)
			}
			fmt.Printf("✓ Reports root %s\n", cfg.ReportsRoot)

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Printf("✓ Station history at %s\n", dbPath)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  testhub parse <barcode>")
			fmt.Println("  testhub run <barcode> --simulate")
			return nil
		},
	}
	cmd.Flags().String("reports", "", "Reports root directory (default: <dir>/reports)")
	cmd.Flags().String("station", "", "Station name recorded with runs (default: hostname)")
	cmd.Flags().String("remote", "", "Git remote for the shared report log (default: origin)")
	cmd.Flags().String("branch", "", "Git branch for the shared report log (default: main)")
	cmd.Flags().String("pull-mode", "", "Pull mode: fast-forward or reset-merge")
	return cmd
}

// PlansCmd returns the plans command
func PlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the boards with a channel plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			wire.MeasurementAdapter().PrintPlans()
			return nil
		},
	}
}
