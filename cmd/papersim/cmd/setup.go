package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rustyeddy/papersim/config"
	"github.com/rustyeddy/papersim/journal"
	"github.com/rustyeddy/papersim/logging"
	"github.com/rustyeddy/papersim/sim"
)

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// session is everything a command needs to run a simulation. close
// flushes the journal and the log file.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	state   *sim.State
	journal journal.Journal
	logFile io.Closer
}

func newSession(cfg *config.Config) (*session, error) {
	log, logFile, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	slog.SetDefault(log)

	j, err := cfg.OpenJournal()
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("create journal: %w", err)
	}

	state := sim.New(cfg.SimOptions(), cfg.Rand(), sim.WithJournal(j), sim.WithLogger(log))
	if err := cfg.Populate(state); err != nil {
		j.Close()
		logFile.Close()
		return nil, fmt.Errorf("populate simulation: %w", err)
	}

	log.Info("simulation ready",
		"instruments", len(cfg.Instruments),
		"correlations", len(cfg.Correlations),
		"bots", len(cfg.Bots),
		"cash", cfg.Account.Cash,
		"journal", cfg.Journal.Type,
	)
	return &session{cfg: cfg, log: log, state: state, journal: j, logFile: logFile}, nil
}

func (s *session) close() {
	if err := s.journal.Close(); err != nil {
		s.log.Error("close journal", "err", err)
	}
	s.logFile.Close()
}

func printSummary(w io.Writer, s *sim.State) {
	snap := s.GetPortfolioSnapshot()
	fmt.Fprintf(w, "\nAfter %d ticks:\n", s.TickCount())
	fmt.Fprintf(w, "  Cash:           $%.2f\n", snap.Cash)
	fmt.Fprintf(w, "  Positions:      $%.2f\n", snap.PositionsValue)
	fmt.Fprintf(w, "  Net worth:      $%.2f\n", snap.NetWorth)
	fmt.Fprintf(w, "  Realized P&L:   $%.2f\n", snap.RealizedPnLTotal)
	fmt.Fprintf(w, "  Unrealized P&L: $%.2f\n", snap.UnrealizedPnLTotal)

	if len(snap.Positions) > 0 {
		fmt.Fprintln(w, "\n  Open positions:")
		for _, p := range snap.Positions {
			price, _ := s.GetPrice(p.InstrumentID)
			fmt.Fprintf(w, "    %-10s %12.4f @ %10.4f (now %10.4f)\n", p.InstrumentID, p.Quantity, p.AverageCost, price)
		}
	}

	bots := s.Bots()
	if len(bots) > 0 {
		fmt.Fprintln(w, "\n  Bots:")
		for _, b := range bots {
			fmt.Fprintf(w, "    %-16s %-14s %-8s fills=%d rejects=%d\n", b.Name, b.Strategy, b.State, b.Fills, b.Rejects)
		}
	}
}
