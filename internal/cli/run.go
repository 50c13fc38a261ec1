package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/testhub/internal/adapters/cli"
	"github.com/example/testhub/internal/adapters/device"
	"github.com/example/testhub/internal/ports/primary"
	"github.com/example/testhub/internal/ports/secondary"
	"github.com/example/testhub/internal/wire"
)

// simulatorNoise is the peak noise of simulated acquisitions, in volts.
const simulatorNoise = 0.005

// ParseCmd returns the parse command
func ParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <barcode>",
		Short: "Show the board identity encoded in a barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := primary.NewSession(args[0], "")
			cliadapter.PrintIdentity(os.Stdout, session.Barcode, session.Identity)
			return nil
		},
	}
}

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <barcode>",
		Short: "Measure a board and record the report",
		Long: `Run the measurement protocol for the scanned board: connect to the fixture,
wait for the operator in READY, energize and measure each channel of the board's
plan, append the report to the board's document and push it to the shared log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			simulate, _ := cmd.Flags().GetBool("simulate")
			failPin, _ := cmd.Flags().GetInt("fail-pin")
			noWait, _ := cmd.Flags().GetBool("no-wait")
			noPush, _ := cmd.Flags().GetBool("no-push")

			ctx, cancel := signalContext()
			defer cancel()

			session := primary.NewSession(args[0], wire.Config().Station)
			cliadapter.PrintIdentity(os.Stdout, session.Barcode, session.Identity)
			fmt.Println()

			dev, err := openDevice(session, simulate, failPin)
			if err != nil {
				return err
			}

			var start <-chan struct{}
			if !noWait {
				start = waitForEnter(os.Stdin)
			}

			tr, err := wire.MeasurementAdapter().Run(ctx, primary.RunRequest{
				Session:     session,
				Device:      dev,
				StartSignal: start,
			})
			if err != nil {
				return err
			}

			if noPush {
				return nil
			}
			res := <-wire.SyncService().PushAsync(ctx, PushMessage(session.Identity, tr.OverallStatus))
			wire.SyncAdapter().PrintResult(res)
			return nil
		},
	}
	cmd.Flags().Bool("simulate", false, "Use the fixture simulator instead of hardware")
	cmd.Flags().Int("fail-pin", -1, "With --simulate, read 0 V on this pin")
	cmd.Flags().Bool("no-wait", false, "Start measuring without waiting for Enter")
	cmd.Flags().Bool("no-push", false, "Do not push the report after the run")
	return cmd
}

func openDevice(session primary.Session, simulate bool, failPin int) (secondary.DeviceSession, error) {
	if !simulate {
		return nil, fmt.Errorf("no fixture driver is built into this binary; use --simulate")
	}
	levels := map[int]float64{}
	if plan, err := wire.Plans().Lookup(session.Identity.Name); err == nil {
		levels = device.LevelsFromPlan(plan)
	}
	if failPin >= 0 {
		levels[failPin] = 0
	}
	return device.NewSimulator(levels, simulatorNoise, time.Now().UnixNano()), nil
}
