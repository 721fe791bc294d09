// Package pricing evolves synthetic instrument prices one tick at a time.
//
// Each tick draws an independent delta per instrument (idiosyncratic noise
// plus a shared sentiment term), then couples the deltas along the
// registry's correlation edges, and finally floors every price above zero.
// A slow random walk drives the shared sentiment, and rare news shocks jolt
// it and the instruments they name.
package pricing

import (
	"math"

	"github.com/rustyeddy/papersim/internal/ring"
	"github.com/rustyeddy/papersim/market"
	"github.com/rustyeddy/papersim/pkg/id"
)

// Config holds the engine's tunables. None of the default ratios are
// load-bearing; they only need to produce plausible noise.
type Config struct {
	Dampening        float64 // scale applied to a correlated delta
	SentimentWeight  float64 // share of price moved by sentiment per tick
	SentimentStep    float64 // max sentiment random-walk step per tick
	ShockProbability float64 // chance of a news shock per tick
	ShockMin         float64 // sentiment jump bounds for a shock
	ShockMax         float64
	ShockPriceWeight float64 // direct price impact of a shock on affected instruments
	HistoryCap       int
	MinVolume        float64
	MaxVolume        float64
	PriceFloor       float64
	NewsCap          int
}

func DefaultConfig() Config {
	return Config{
		Dampening:        0.5,
		SentimentWeight:  0.001,
		SentimentStep:    0.05,
		ShockProbability: 0.02,
		ShockMin:         0.3,
		ShockMax:         0.6,
		ShockPriceWeight: 0.02,
		HistoryCap:       200,
		MinVolume:        100,
		MaxVolume:        5000,
		PriceFloor:       0.01,
		NewsCap:          50,
	}
}

// TickReport summarises one call to Advance.
type TickReport struct {
	Tick          int64              `json:"tick"`
	UpdatedPrices map[string]float64 `json:"updated_prices"`
	NewsEvents    []NewsEvent        `json:"news_events,omitempty"`
	Sentiment     float64            `json:"sentiment"`
}

// Engine owns the current price, the price history, and the sentiment
// state of every instrument in its registry. It is not safe for concurrent
// use.
type Engine struct {
	cfg       Config
	reg       *market.Registry
	rnd       RandomSource
	newID     func() string
	tick      int64
	sentiment float64
	prices    map[string]float64
	history   map[string]*History
	forced    map[string]float64
	news      *ring.Buffer[NewsEvent]
}

type Option func(*Engine)

// WithIDs replaces the news-event ID generator.
func WithIDs(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(cfg Config, reg *market.Registry, rnd RandomSource, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = def.HistoryCap
	}
	if cfg.NewsCap <= 0 {
		cfg.NewsCap = def.NewsCap
	}
	if !(cfg.PriceFloor > 0) {
		cfg.PriceFloor = def.PriceFloor
	}

	e := &Engine{
		cfg:     cfg,
		reg:     reg,
		rnd:     rnd,
		newID:   id.New,
		prices:  make(map[string]float64),
		history: make(map[string]*History),
		forced:  make(map[string]float64),
		news:    ring.New[NewsEvent](cfg.NewsCap),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Seed records the base price of inst as its tick-0 history point. It is a
// no-op for an instrument the engine already tracks.
func (e *Engine) Seed(inst market.Instrument) {
	if _, ok := e.prices[inst.ID]; ok {
		return
	}
	p := math.Max(e.cfg.PriceFloor, inst.BasePrice)
	e.prices[inst.ID] = p
	h := NewHistory(e.cfg.HistoryCap)
	h.Append(PricePoint{Tick: e.tick, Price: p})
	e.history[inst.ID] = h
}

// ForceDelta overrides the first-pass delta of id on the next tick only.
// Correlation coupling still applies on top of it.
func (e *Engine) ForceDelta(id string, delta float64) {
	e.forced[id] = delta
}

// SetPrice overwrites the current price of id, floored.
func (e *Engine) SetPrice(id string, price float64) bool {
	if _, ok := e.prices[id]; !ok {
		return false
	}
	e.prices[id] = e.floor(price, e.prices[id])
	return true
}

// SetSentiment overwrites the shared sentiment, clamped to [-1,1].
func (e *Engine) SetSentiment(s float64) {
	e.sentiment = clamp(s, -1, 1)
}

func (e *Engine) Sentiment() float64 { return e.sentiment }

func (e *Engine) TickCount() int64 { return e.tick }

func (e *Engine) Price(id string) (float64, bool) {
	p, ok := e.prices[id]
	return p, ok
}

// Prices returns a copy of every current price.
func (e *Engine) Prices() map[string]float64 {
	out := make(map[string]float64, len(e.prices))
	for k, v := range e.prices {
		out[k] = v
	}
	return out
}

func (e *Engine) History(id string) (*History, bool) {
	h, ok := e.history[id]
	return h, ok
}

// News returns up to limit recent news events, newest first.
func (e *Engine) News(limit int) []NewsEvent {
	return e.news.Newest(limit)
}

// Advance moves every instrument one tick forward.
func (e *Engine) Advance() TickReport {
	insts := e.reg.Instruments()
	for _, inst := range insts {
		e.Seed(inst)
	}
	e.tick++

	e.walkSentiment()
	events := e.maybeShock(insts)

	// First pass: independent candidate deltas.
	deltas := make(map[string]float64, len(insts))
	for _, inst := range insts {
		last := e.prices[inst.ID]
		s := sign(e.rnd)
		magnitude := e.rnd.Float64() * inst.Volatility
		d := last*inst.Volatility*s*magnitude + last*e.sentiment*e.cfg.SentimentWeight
		for _, ev := range events {
			if ev.Affects(inst) {
				d += last * ev.Direction * ev.Magnitude * e.cfg.ShockPriceWeight
			}
		}
		if f, ok := e.forced[inst.ID]; ok {
			d = f
		}
		deltas[inst.ID] = d
	}

	// Second pass: coupling reads only first-pass deltas, so edge order
	// does not matter and contributions into one target add up.
	coupled := make(map[string]float64, len(deltas))
	for k, v := range deltas {
		coupled[k] = v
	}
	for _, edge := range e.reg.Edges() {
		coupled[edge.To] += deltas[edge.From] * edge.Factor * e.cfg.Dampening
	}

	updated := make(map[string]float64, len(insts))
	for _, inst := range insts {
		last := e.prices[inst.ID]
		next := e.floor(last+coupled[inst.ID], last)
		e.prices[inst.ID] = next
		e.history[inst.ID].Append(PricePoint{
			Tick:   e.tick,
			Price:  next,
			Volume: uniform(e.rnd, e.cfg.MinVolume, e.cfg.MaxVolume),
		})
		updated[inst.ID] = next
	}
	clear(e.forced)

	return TickReport{
		Tick:          e.tick,
		UpdatedPrices: updated,
		NewsEvents:    events,
		Sentiment:     e.sentiment,
	}
}

func (e *Engine) walkSentiment() {
	step := (e.rnd.Float64()*2 - 1) * e.cfg.SentimentStep
	e.sentiment = clamp(e.sentiment+step, -1, 1)
}

func (e *Engine) maybeShock(insts []market.Instrument) []NewsEvent {
	if len(insts) == 0 || e.rnd.Float64() >= e.cfg.ShockProbability {
		return nil
	}

	direction := sign(e.rnd)
	magnitude := uniform(e.rnd, e.cfg.ShockMin, e.cfg.ShockMax)
	e.sentiment = clamp(e.sentiment+direction*magnitude, -1, 1)

	ev := NewsEvent{
		Tick:      e.tick,
		Impact:    impactFor(magnitude, e.cfg.ShockMin, e.cfg.ShockMax),
		Direction: direction,
		Magnitude: magnitude,
	}

	pick := insts[e.rnd.Intn(len(insts))]
	subject := ""
	switch e.rnd.Intn(3) {
	case 0:
		ev.Scope, ev.Target, subject = ScopeInstrument, pick.ID, pick.Name
	case 1:
		ev.Scope, ev.Target, subject = ScopeCategory, string(pick.Category), string(pick.Category)+" markets"
	default:
		ev.Scope, ev.Target, subject = ScopeAll, string(ScopeAll), "global markets"
	}
	ev.Headline = headline(e.rnd, direction, subject)
	ev.ID = e.newID()

	e.news.Push(ev)
	return []NewsEvent{ev}
}

// floor keeps a price finite and strictly positive. A non-finite candidate
// falls back to the previous price.
func (e *Engine) floor(p, prev float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = prev
	}
	return math.Max(e.cfg.PriceFloor, p)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(hi, math.Max(lo, v))
}
