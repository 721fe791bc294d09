// Package orderbook derives an illustrative bid/ask ladder around a price.
// The book is display state only: it is rebuilt from scratch on every call
// and never matched against.
package orderbook

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDepthTooLarge is returned for a requested depth above Config.MaxDepth.
var ErrDepthTooLarge = errors.New("order book depth too large")

// Rand is the randomness a Synthesizer needs. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Entry struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// Book has bids sorted descending and asks sorted ascending by price.
type Book struct {
	Bids []Entry `json:"bids"`
	Asks []Entry `json:"asks"`
}

func (b Book) BestBid() (Entry, bool) {
	if len(b.Bids) == 0 {
		return Entry{}, false
	}
	return b.Bids[0], true
}

func (b Book) BestAsk() (Entry, bool) {
	if len(b.Asks) == 0 {
		return Entry{}, false
	}
	return b.Asks[0], true
}

// Spread is best ask minus best bid, or zero for a one-sided book.
func (b Book) Spread() float64 {
	bid, okb := b.BestBid()
	ask, oka := b.BestAsk()
	if !okb || !oka {
		return 0
	}
	return ask.Price - bid.Price
}

type Config struct {
	BaseSpreadFraction float64 `json:"base_spread_fraction" yaml:"base_spread_fraction"`
	JitterMin          float64 `json:"jitter_min" yaml:"jitter_min"`
	JitterMax          float64 `json:"jitter_max" yaml:"jitter_max"`
	MaxSize            float64 `json:"max_size" yaml:"max_size"`
	Depth              int     `json:"depth" yaml:"depth"`
	MaxDepth           int     `json:"max_depth" yaml:"max_depth"`
}

func DefaultConfig() Config {
	return Config{
		BaseSpreadFraction: 0.0005,
		JitterMin:          0.5,
		JitterMax:          1.5,
		MaxSize:            500,
		Depth:              10,
		MaxDepth:           100,
	}
}

type Synthesizer struct {
	cfg Config
	rnd Rand
}

func NewSynthesizer(cfg Config, rnd Rand) *Synthesizer {
	def := DefaultConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Depth <= 0 {
		cfg.Depth = def.Depth
	}
	if cfg.Depth > cfg.MaxDepth {
		cfg.Depth = cfg.MaxDepth
	}
	if !(cfg.MaxSize > 0) {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.JitterMax < cfg.JitterMin {
		cfg.JitterMin, cfg.JitterMax = cfg.JitterMax, cfg.JitterMin
	}
	return &Synthesizer{cfg: cfg, rnd: rnd}
}

func (s *Synthesizer) Config() Config { return s.cfg }

// CheckDepth reports ErrDepthTooLarge for a depth above MaxDepth.
func (s *Synthesizer) CheckDepth(depth int) error {
	if depth > s.cfg.MaxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrDepthTooLarge, depth, s.cfg.MaxDepth)
	}
	return nil
}

// Synthesize builds depth levels per side around price. A depth <= 0 uses
// the configured default and a depth above MaxDepth is clamped to it. Bid
// levels that would not be positive are dropped.
func (s *Synthesizer) Synthesize(price float64, depth int) Book {
	if depth <= 0 {
		depth = s.cfg.Depth
	}
	if depth > s.cfg.MaxDepth {
		depth = s.cfg.MaxDepth
	}
	if !(price > 0) || math.IsInf(price, 0) {
		return Book{Bids: []Entry{}, Asks: []Entry{}}
	}

	book := Book{
		Bids: make([]Entry, 0, depth),
		Asks: make([]Entry, 0, depth),
	}
	for i := 0; i < depth; i++ {
		jitter := s.cfg.JitterMin + s.rnd.Float64()*(s.cfg.JitterMax-s.cfg.JitterMin)
		spread := price * s.cfg.BaseSpreadFraction * float64(i+1) * jitter

		if bid := price - spread; bid > 0 {
			book.Bids = append(book.Bids, Entry{Price: bid, Size: s.size()})
		}
		book.Asks = append(book.Asks, Entry{Price: price + spread, Size: s.size()})
	}

	sort.SliceStable(book.Bids, func(i, j int) bool { return book.Bids[i].Price > book.Bids[j].Price })
	sort.SliceStable(book.Asks, func(i, j int) bool { return book.Asks[i].Price < book.Asks[j].Price })
	return book
}

// size draws from (0, MaxSize].
func (s *Synthesizer) size() float64 {
	return s.cfg.MaxSize * (1 - s.rnd.Float64())
}
