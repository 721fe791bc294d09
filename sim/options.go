package sim

import (
	"log/slog"
	"time"

	"github.com/rustyeddy/papersim/journal"
	"github.com/rustyeddy/papersim/orderbook"
	"github.com/rustyeddy/papersim/pricing"
)

// Options are the simulation tunables.
type Options struct {
	Cash          float64
	Engine        pricing.Config
	OrderBook     orderbook.Config
	LogCap        int     // transaction log entries kept
	Epsilon       float64 // positions smaller than this are closed
	NetWorthEvery int     // ticks between net-worth samples
	NetWorthCap   int
}

func DefaultOptions() Options {
	return Options{
		Cash:          10_000_000,
		Engine:        pricing.DefaultConfig(),
		OrderBook:     orderbook.DefaultConfig(),
		LogCap:        100,
		Epsilon:       1e-9,
		NetWorthEvery: 5,
		NetWorthCap:   500,
	}
}

type Option func(*State)

// WithJournal exports every executed transaction and net-worth sample to j.
func WithJournal(j journal.Journal) Option {
	return func(s *State) {
		if j != nil {
			s.journal = j
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNow replaces the wall clock used to timestamp transactions and samples.
func WithNow(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs replaces the ID generator for transactions and news events.
func WithIDs(fn func() string) Option {
	return func(s *State) {
		if fn != nil {
			s.newID = fn
		}
	}
}
