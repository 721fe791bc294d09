// Package sim owns a running market simulation: the instrument registry,
// the price engine, the paper-trading ledger, the bots, and the net-worth
// tracker, all behind one mutex.
//
// Every exported method is safe for concurrent use and returns copies. A
// Clock can drive Tick from a background goroutine while other callers
// trade and query.
package sim

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/papersim/journal"
	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/market"
	"github.com/rustyeddy/papersim/metrics"
	"github.com/rustyeddy/papersim/networth"
	"github.com/rustyeddy/papersim/orderbook"
	"github.com/rustyeddy/papersim/pkg/id"
	"github.com/rustyeddy/papersim/pricing"
	"github.com/rustyeddy/papersim/strategies"
)

// ErrUnknownInstrument is returned by every lookup and order on an ID the
// registry does not know.
var ErrUnknownInstrument = market.ErrUnknownInstrument

type State struct {
	mu sync.Mutex

	opts    Options
	reg     *market.Registry
	engine  *pricing.Engine
	books   *orderbook.Synthesizer
	ledger  *ledger.Ledger
	tracker *networth.Tracker
	bots    []*strategies.Bot

	journal journal.Journal
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

// New builds an empty simulation. rnd drives the price engine and the
// order book synthesizer; pass a seeded source for reproducible runs.
func New(cfg Options, rnd pricing.RandomSource, opts ...Option) *State {
	def := DefaultOptions()
	if cfg.LogCap <= 0 {
		cfg.LogCap = def.LogCap
	}
	if !(cfg.Epsilon > 0) {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.NetWorthEvery <= 0 {
		cfg.NetWorthEvery = def.NetWorthEvery
	}
	if cfg.NetWorthCap <= 0 {
		cfg.NetWorthCap = def.NetWorthCap
	}
	if rnd == nil {
		rnd = pricing.NewRand(time.Now().UnixNano())
	}

	s := &State{
		opts:    cfg,
		reg:     market.NewRegistry(),
		books:   orderbook.NewSynthesizer(cfg.OrderBook, rnd),
		tracker: networth.New(cfg.NetWorthEvery, cfg.NetWorthCap),
		journal: journal.Discard{},
		log:     slog.Default(),
		now:     time.Now,
		newID:   id.New,
	}
	for _, o := range opts {
		o(s)
	}

	s.engine = pricing.NewEngine(cfg.Engine, s.reg, rnd, pricing.WithIDs(s.newID))
	s.ledger = ledger.New(cfg.Cash,
		ledger.WithLogCap(cfg.LogCap),
		ledger.WithEpsilon(cfg.Epsilon),
		ledger.WithClock(s.now),
		ledger.WithIDs(s.newID),
	)
	metrics.Cash.Set(cfg.Cash)
	metrics.NetWorth.Set(cfg.Cash)
	return s
}

// RegisterInstrument adds an instrument. It fails once the first tick has
// run.
func (s *State) RegisterInstrument(inst market.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reg.Register(inst); err != nil {
		return fmt.Errorf("register instrument %q: %w", inst.ID, err)
	}
	registered, _ := s.reg.Get(inst.ID)
	s.engine.Seed(registered)
	s.log.Debug("instrument registered", "id", registered.ID, "price", registered.BasePrice, "category", registered.Category)
	return nil
}

// RegisterCorrelation couples from's delta into to's on every tick.
func (s *State) RegisterCorrelation(from, to string, factor float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reg.Correlate(from, to, factor); err != nil {
		return fmt.Errorf("register correlation %s->%s: %w", from, to, err)
	}
	return nil
}

func (s *State) Instruments() []market.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Instruments()
}

func (s *State) Correlations() []market.CorrelationEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Edges()
}

func (s *State) TickCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.TickCount()
}

func (s *State) Sentiment() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Sentiment()
}

func (s *State) GetPrice(instrumentID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.engine.Price(instrumentID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	return p, nil
}

// Prices returns every current price.
func (s *State) Prices() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Prices()
}

// GetHistory returns a copy of the price history, oldest first.
func (s *State) GetHistory(instrumentID string) ([]pricing.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.engine.History(instrumentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	return h.Points(), nil
}

// GetOrderBook synthesizes a fresh book around the current price. A depth
// <= 0 uses the configured default; one above the configured maximum fails
// with orderbook.ErrDepthTooLarge.
func (s *State) GetOrderBook(instrumentID string, depth int) (orderbook.Book, error) {
	if err := s.books.CheckDepth(depth); err != nil {
		return orderbook.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.engine.Price(instrumentID)
	if !ok {
		return orderbook.Book{}, fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	return s.books.Synthesize(p, depth), nil
}

// GetNews returns up to limit recent news events, newest first.
func (s *State) GetNews(limit int) []pricing.NewsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.News(limit)
}

// SetPrice overwrites an instrument's current price, floored above zero.
func (s *State) SetPrice(instrumentID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.SetPrice(instrumentID, price) {
		return fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	return nil
}

// ForceDelta replaces instrumentID's independent delta on the next tick.
func (s *State) ForceDelta(instrumentID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.engine.Price(instrumentID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	s.engine.ForceDelta(instrumentID, delta)
	return nil
}

func (s *State) GetPortfolioSnapshot() ledger.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot(s.engine.Prices())
}

// GetTransactionLog returns up to limit transactions, newest first.
func (s *State) GetTransactionLog(limit int) []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transactions(limit)
}

// NetWorthSeries returns the sampled net-worth series, oldest first.
func (s *State) NetWorthSeries() []networth.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Series()
}
