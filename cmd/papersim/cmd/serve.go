package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/papersim/api"
	"github.com/rustyeddy/papersim/sim"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation over HTTP",
	Long: `Start the simulation clock and expose it over a JSON API.

Endpoints live under /api/v1; /api/v1/ws streams tick reports and
/metrics exposes Prometheus metrics.

Example:
  papersim serve -c simulation.yaml --addr :9090`,
	RunE: runServe,
}

var (
	serveAddr   string
	servePaused bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&servePaused, "paused", false, "start with the clock stopped")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	interval, err := cfg.Clock.ParseInterval()
	if err != nil {
		return fmt.Errorf("clock interval: %w", err)
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	hub := api.NewHub(sess.log)
	clock := sim.NewClock(sess.state, interval,
		sim.WithMaxTicks(cfg.Clock.Ticks),
		sim.OnTick(func(rep sim.TickReport) { hub.Broadcast("tick", rep) }),
	)
	srv := api.NewServer(sess.state, api.WithHub(hub), api.WithClock(clock), api.WithLogger(sess.log)).
		NewHTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		if !servePaused {
			if err := clock.Start(ctx); err != nil {
				return err
			}
		}
		<-ctx.Done()
		clock.Stop()
		return nil
	})

	g.Go(func() error {
		sess.log.Info("papersim listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sess.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sess.state)
	return nil
}
