package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"pagsync/cmd/consumers/app"

	"github.com/spf13/cobra"
)

var (
	sweepEvery   time.Duration
	sweepWatch   bool
	sweepMethods []string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Queue a cron envelope for every pending PagBank order",
	Long: `Lists new and payment_review orders per payment method group and puts a
cron envelope on the queue for each order's transaction. The consumer then
refreshes the payment and expires overdue orders.

With --watch the sweep repeats at the configured sweep.every interval until
interrupted; --every overrides that interval. Without either flag a single
pass runs and the command exits.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepEvery, "every", 0, "repeat the sweep at this interval until interrupted")
	sweepCmd.Flags().BoolVar(&sweepWatch, "watch", false, "repeat the sweep at the configured sweep.every interval")
	sweepCmd.Flags().StringSliceVar(&sweepMethods, "method", nil, "restrict to these payment method codes")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := a.Sweep(sweepMethods)
	if every := sweepInterval(sweepWatch, sweepEvery, cfg.Sweep.Every); every > 0 {
		return runner.Run(ctx, every)
	}

	rep, err := runner.SweepOnce(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "published=%d skipped=%d failed=%d\n", rep.Published, rep.Skipped, rep.Failed)
	return err
}


// sweepInterval returns zero for a single pass.
func sweepInterval(watch bool, every, configured time.Duration) time.Duration {
	if every > 0 {
		return every
	}
	if watch {
		return configured
	}
	return 0
}
