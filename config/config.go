package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/papersim/logging"
	"github.com/rustyeddy/papersim/market"
	"github.com/rustyeddy/papersim/orderbook"
	"github.com/rustyeddy/papersim/pricing"
	"github.com/rustyeddy/papersim/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulation configuration
type Config struct {
	Account      AccountConfig            `json:"account" yaml:"account"`
	Engine       EngineConfig             `json:"engine" yaml:"engine"`
	OrderBook    orderbook.Config         `json:"order_book" yaml:"order_book"`
	Ledger       LedgerConfig             `json:"ledger" yaml:"ledger"`
	NetWorth     NetWorthConfig           `json:"net_worth" yaml:"net_worth"`
	Clock        ClockConfig              `json:"clock" yaml:"clock"`
	Instruments  []market.Instrument      `json:"instruments" yaml:"instruments"`
	Correlations []market.CorrelationEdge `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Bots         []strategies.BotConfig   `json:"bots,omitempty" yaml:"bots,omitempty"`
	Journal      JournalConfig            `json:"journal" yaml:"journal"`
	Logging      logging.Config           `json:"logging" yaml:"logging"`
	Server       ServerConfig             `json:"server" yaml:"server"`
}

type AccountConfig struct {
	Cash float64 `json:"cash" yaml:"cash"`
}

// EngineConfig holds the price engine tunables. Seed 0 means seed from the
// wall clock.
type EngineConfig struct {
	Seed             int64   `json:"seed" yaml:"seed"`
	Dampening        float64 `json:"dampening" yaml:"dampening"`
	SentimentWeight  float64 `json:"sentiment_weight" yaml:"sentiment_weight"`
	SentimentStep    float64 `json:"sentiment_step" yaml:"sentiment_step"`
	ShockProbability float64 `json:"shock_probability" yaml:"shock_probability"`
	ShockMin         float64 `json:"shock_min" yaml:"shock_min"`
	ShockMax         float64 `json:"shock_max" yaml:"shock_max"`
	ShockPriceWeight float64 `json:"shock_price_weight" yaml:"shock_price_weight"`
	HistoryCap       int     `json:"history_cap" yaml:"history_cap"`
	MinVolume        float64 `json:"min_volume" yaml:"min_volume"`
	MaxVolume        float64 `json:"max_volume" yaml:"max_volume"`
	PriceFloor       float64 `json:"price_floor" yaml:"price_floor"`
	NewsCap          int     `json:"news_cap" yaml:"news_cap"`
}

type LedgerConfig struct {
	LogCap  int     `json:"log_cap" yaml:"log_cap"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

type NetWorthConfig struct {
	Every int `json:"every" yaml:"every"` // ticks between samples
	Cap   int `json:"cap" yaml:"cap"`
}

type ClockConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "1s", "250ms"
	Ticks    int64  `json:"ticks" yaml:"ticks"`       // 0 runs until stopped
}

// ParseInterval converts the interval string to time.Duration
func (c ClockConfig) ParseInterval() (time.Duration, error) {
	if c.Interval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(c.Interval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	NetWorthFile     string `json:"networth_file,omitempty" yaml:"networth_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !(c.Account.Cash >= 0) {
		return fmt.Errorf("account.cash must not be negative")
	}

	e := c.Engine
	if e.Dampening < 0 {
		return fmt.Errorf("engine.dampening must not be negative")
	}
	if e.SentimentWeight < 0 || e.SentimentStep < 0 {
		return fmt.Errorf("engine sentiment weight and step must not be negative")
	}
	if e.ShockProbability < 0 || e.ShockProbability > 1 {
		return fmt.Errorf("engine.shock_probability must be between 0 and 1")
	}
	if e.ShockMin < 0 || e.ShockMax < e.ShockMin {
		return fmt.Errorf("engine.shock_min must be >= 0 and <= shock_max")
	}
	if e.HistoryCap <= 0 {
		return fmt.Errorf("engine.history_cap must be positive")
	}
	if e.MinVolume < 0 || e.MaxVolume < e.MinVolume {
		return fmt.Errorf("engine.min_volume must be >= 0 and <= max_volume")
	}
	if !(e.PriceFloor > 0) {
		return fmt.Errorf("engine.price_floor must be positive")
	}
	if e.NewsCap <= 0 {
		return fmt.Errorf("engine.news_cap must be positive")
	}

	ob := c.OrderBook
	if !(ob.BaseSpreadFraction > 0) {
		return fmt.Errorf("order_book.base_spread_fraction must be positive")
	}
	if !(ob.JitterMin > 0) || ob.JitterMax < ob.JitterMin {
		return fmt.Errorf("order_book jitter range must be positive with jitter_min <= jitter_max")
	}
	if !(ob.MaxSize > 0) {
		return fmt.Errorf("order_book.max_size must be positive")
	}
	if ob.Depth <= 0 {
		return fmt.Errorf("order_book.depth must be positive")
	}
	if ob.MaxDepth != 0 && ob.MaxDepth < ob.Depth {
		return fmt.Errorf("order_book.max_depth must be 0 (default) or at least order_book.depth")
	}

	if c.Ledger.LogCap <= 0 {
		return fmt.Errorf("ledger.log_cap must be positive")
	}
	if !(c.Ledger.Epsilon > 0) {
		return fmt.Errorf("ledger.epsilon must be positive")
	}
	if c.NetWorth.Every <= 0 || c.NetWorth.Cap <= 0 {
		return fmt.Errorf("net_worth.every and net_worth.cap must be positive")
	}

	d, err := c.Clock.ParseInterval()
	if err != nil {
		return fmt.Errorf("clock.interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("clock.interval must be positive")
	}
	if c.Clock.Ticks < 0 {
		return fmt.Errorf("clock.ticks must not be negative")
	}

	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	reg, err := c.Registry()
	if err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		if _, err := strategies.NewBot(b); err != nil {
			return fmt.Errorf("bots: %w", err)
		}
		if names[b.Name] {
			return fmt.Errorf("bots: duplicate name %q", b.Name)
		}
		names[b.Name] = true
		if _, ok := reg.Get(b.Instrument); !ok {
			return fmt.Errorf("bots: %s trades unknown instrument %q", b.Name, b.Instrument)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.NetWorthFile == "" {
			return fmt.Errorf("journal transactions_file and networth_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Registry builds a market registry from the configured instruments and
// correlations.
func (c *Config) Registry() (*market.Registry, error) {
	reg := market.NewRegistry()
	for _, inst := range c.Instruments {
		if err := reg.Register(inst); err != nil {
			return nil, fmt.Errorf("instruments: %w", err)
		}
	}
	for _, e := range c.Correlations {
		if err := reg.Correlate(e.From, e.To, e.Factor); err != nil {
			return nil, fmt.Errorf("correlations: %w", err)
		}
	}
	return reg, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	insts := make([]market.Instrument, len(market.DemoInstruments))
	copy(insts, market.DemoInstruments)
	edges := make([]market.CorrelationEdge, len(market.DemoCorrelations))
	copy(edges, market.DemoCorrelations)

	return &Config{
		Account: AccountConfig{
			Cash: 10_000_000,
		},
		Engine:    engineFrom(pricing.DefaultConfig()),
		OrderBook: orderbook.DefaultConfig(),
		Ledger: LedgerConfig{
			LogCap:  100,
			Epsilon: 1e-9,
		},
		NetWorth: NetWorthConfig{
			Every: 5,
			Cap:   500,
		},
		Clock: ClockConfig{
			Interval: "1s",
		},
		Instruments:  insts,
		Correlations: edges,
		Bots: []strategies.BotConfig{
			{Name: "gold-momentum", Instrument: "GOLD", Strategy: "momentum", OrderSize: 10},
			{Name: "bond-reversion", Instrument: "GOV-BND", Strategy: "mean-reversion", OrderSize: 500},
			{Name: "crude-arb", Instrument: "CRUDE", Strategy: "arbitrage", OrderSize: 100},
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Logging: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
