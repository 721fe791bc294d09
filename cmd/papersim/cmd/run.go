package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/papersim/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation",
	Long: `Run the simulation without a server and print a portfolio summary.

By default the clock ticks at the configured interval. With --fast the ticks
run back to back.

Examples:
  papersim run --ticks 500 --fast
  papersim run -c simulation.yaml --interval 100ms --activate-bots`,
	RunE: runRun,
}

var (
	runTicks        int64
	runInterval     time.Duration
	runFast         bool
	runActivateBots bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64VarP(&runTicks, "ticks", "n", 0, "number of ticks (overrides clock.ticks; 0 runs until interrupted)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "tick interval (overrides clock.interval)")
	runCmd.Flags().BoolVar(&runFast, "fast", false, "tick as fast as possible (requires a tick count)")
	runCmd.Flags().BoolVar(&runActivateBots, "activate-bots", false, "activate every configured bot")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runTicks > 0 {
		cfg.Clock.Ticks = runTicks
	}
	if runInterval > 0 {
		cfg.Clock.Interval = runInterval.String()
	}
	if runFast && cfg.Clock.Ticks == 0 {
		return fmt.Errorf("--fast needs a tick count")
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	if runActivateBots {
		for _, b := range cfg.Bots {
			if _, err := sess.state.SetBotActive(b.Name, true); err != nil {
				return err
			}
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running %d instruments, %d bots, cash $%.2f\n", len(cfg.Instruments), len(cfg.Bots), cfg.Account.Cash)

	if runFast {
		runFastTicks(ctx, sess.state, cfg.Clock.Ticks)
	} else {
		interval, err := cfg.Clock.ParseInterval()
		if err != nil {
			return fmt.Errorf("clock interval: %w", err)
		}
		clock := sim.NewClock(sess.state, interval, sim.WithMaxTicks(cfg.Clock.Ticks))
		if err := clock.Run(ctx); err != nil {
			return err
		}
	}

	printSummary(out, sess.state)
	return nil
}

func runFastTicks(ctx context.Context, s *sim.State, n int64) {
	for i := int64(0); i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		s.Tick()
	}
}
