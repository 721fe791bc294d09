package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/papersim/journal"
	"github.com/rustyeddy/papersim/pricing"
	"github.com/rustyeddy/papersim/sim"
)

func engineFrom(p pricing.Config) EngineConfig {
	return EngineConfig{
		Dampening:        p.Dampening,
		SentimentWeight:  p.SentimentWeight,
		SentimentStep:    p.SentimentStep,
		ShockProbability: p.ShockProbability,
		ShockMin:         p.ShockMin,
		ShockMax:         p.ShockMax,
		ShockPriceWeight: p.ShockPriceWeight,
		HistoryCap:       p.HistoryCap,
		MinVolume:        p.MinVolume,
		MaxVolume:        p.MaxVolume,
		PriceFloor:       p.PriceFloor,
		NewsCap:          p.NewsCap,
	}
}

// Pricing converts the engine section to the price engine's config.
func (e EngineConfig) Pricing() pricing.Config {
	return pricing.Config{
		Dampening:        e.Dampening,
		SentimentWeight:  e.SentimentWeight,
		SentimentStep:    e.SentimentStep,
		ShockProbability: e.ShockProbability,
		ShockMin:         e.ShockMin,
		ShockMax:         e.ShockMax,
		ShockPriceWeight: e.ShockPriceWeight,
		HistoryCap:       e.HistoryCap,
		MinVolume:        e.MinVolume,
		MaxVolume:        e.MaxVolume,
		PriceFloor:       e.PriceFloor,
		NewsCap:          e.NewsCap,
	}
}

// Rand returns the random source for the simulation, seeded from
// engine.seed or the wall clock when the seed is 0.
func (c *Config) Rand() *rand.Rand {
	seed := c.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return pricing.NewRand(seed)
}

func (c *Config) SimOptions() sim.Options {
	return sim.Options{
		Cash:          c.Account.Cash,
		Engine:        c.Engine.Pricing(),
		OrderBook:     c.OrderBook,
		LogCap:        c.Ledger.LogCap,
		Epsilon:       c.Ledger.Epsilon,
		NetWorthEvery: c.NetWorth.Every,
		NetWorthCap:   c.NetWorth.Cap,
	}
}

// Populate registers the configured instruments, correlations and bots.
// It must run before the first tick.
func (c *Config) Populate(s *sim.State) error {
	for _, inst := range c.Instruments {
		if err := s.RegisterInstrument(inst); err != nil {
			return err
		}
	}
	for _, e := range c.Correlations {
		if err := s.RegisterCorrelation(e.From, e.To, e.Factor); err != nil {
			return err
		}
	}
	for _, b := range c.Bots {
		if _, err := s.AddBot(b); err != nil {
			return err
		}
	}
	return nil
}

// OpenJournal opens the configured audit journal. Type "none" yields a
// journal that discards everything.
func (c *Config) OpenJournal() (journal.Journal, error) {
	switch c.Journal.Type {
	case "", "none":
		return journal.Discard{}, nil
	case "csv":
		return journal.NewCSV(c.Journal.TransactionsFile, c.Journal.NetWorthFile)
	case "sqlite":
		return journal.NewSQLite(c.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
}
