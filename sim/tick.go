package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/metrics"
	"github.com/rustyeddy/papersim/networth"
	"github.com/rustyeddy/papersim/pricing"
	"github.com/rustyeddy/papersim/strategies"
)

// TickReport summarises one simulation step.
type TickReport struct {
	Tick          int64                `json:"tick"`
	UpdatedPrices map[string]float64   `json:"updated_prices"`
	NewsEvents    []pricing.NewsEvent  `json:"news_events,omitempty"`
	Sentiment     float64              `json:"sentiment"`
	BotOrders     []ledger.Transaction `json:"bot_orders,omitempty"`
	BotErrors     []BotError           `json:"bot_errors,omitempty"`
	NetWorth      *networth.Sample     `json:"net_worth,omitempty"` // set on sampling ticks
}

// BotError is a ledger rejection of a bot's order. It never stops the
// simulation.
type BotError struct {
	Bot        string `json:"bot"`
	Instrument string `json:"instrument"`
	Message    string `json:"error"`
	Err        error  `json:"-"`
}

func (e BotError) Error() string {
	return fmt.Sprintf("bot %s on %s: %s", e.Bot, e.Instrument, e.Message)
}

func (e BotError) Unwrap() error { return e.Err }

// Tick advances prices one step, lets every active bot trade at the new
// prices, and samples net worth when due. Registration is closed from the
// first tick on.
func (s *State) Tick() TickReport {
	start := time.Now()

	s.mu.Lock()
	s.reg.Freeze()

	pr := s.engine.Advance()
	rep := TickReport{
		Tick:          pr.Tick,
		UpdatedPrices: pr.UpdatedPrices,
		NewsEvents:    pr.NewsEvents,
		Sentiment:     pr.Sentiment,
	}

	for _, b := range s.bots {
		tx, traded, err := s.runBot(b, pr.Tick)
		if !traded {
			continue
		}
		if err != nil {
			rep.BotErrors = append(rep.BotErrors, BotError{
				Bot:        b.Name(),
				Instrument: b.Instrument(),
				Message:    err.Error(),
				Err:        err,
			})
			continue
		}
		rep.BotOrders = append(rep.BotOrders, tx)
	}

	prices := s.engine.Prices()
	if smp, ok := s.tracker.Observe(pr.Tick, s.now(), s.ledger.Cash(), s.ledger.PositionsValue(prices)); ok {
		rep.NetWorth = &smp
	}
	s.observeCash()
	metrics.Sentiment.Set(pr.Sentiment)
	s.mu.Unlock()

	metrics.TicksTotal.Inc()
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	for _, ev := range rep.NewsEvents {
		metrics.NewsEventsTotal.WithLabelValues(ev.Impact.String()).Inc()
		s.log.Info("news", "tick", ev.Tick, "impact", ev.Impact, "scope", ev.Scope, "target", ev.Target, "headline", ev.Headline)
	}
	for _, be := range rep.BotErrors {
		metrics.OrderRejections.WithLabelValues(rejectReason(be.Err)).Inc()
		s.log.Warn("bot order rejected", "bot", be.Bot, "instrument", be.Instrument, "tick", rep.Tick, "err", be.Err)
	}
	for _, tx := range rep.BotOrders {
		metrics.OrdersTotal.WithLabelValues(string(tx.Type), tx.Source).Inc()
		s.log.Debug("bot order executed", "source", tx.Source, "side", tx.Type, "instrument", tx.InstrumentID, "quantity", tx.Quantity, "price", tx.Price)
	}

	s.exportTransactions(rep.BotOrders)
	if rep.NetWorth != nil {
		s.exportNetWorth(*rep.NetWorth)
	}
	return rep
}

// runBot evaluates b and submits its order. traded is false when the bot
// held. Callers hold s.mu.
func (s *State) runBot(b *strategies.Bot, tick int64) (tx ledger.Transaction, traded bool, err error) {
	if !b.Active() {
		return ledger.Transaction{}, false, nil
	}
	price, ok := s.engine.Price(b.Instrument())
	if !ok {
		return ledger.Transaction{}, false, nil
	}

	var history []float64
	if h, ok := s.engine.History(b.Instrument()); ok {
		history = h.Prices()
	}
	var reference float64
	if inst, ok := s.reg.Get(b.Instrument()); ok {
		reference = inst.BasePrice
	}
	var held float64
	if p, ok := s.ledger.Position(b.Instrument()); ok {
		held = p.Quantity
	}

	var side ledger.Side
	switch b.Evaluate(strategies.Input{
		History:   history,
		Price:     price,
		Reference: reference,
		Position:  held,
		Cash:      s.ledger.Cash(),
	}) {
	case strategies.Buy:
		side = ledger.SideBuy
	case strategies.Sell:
		side = ledger.SideSell
	default:
		return ledger.Transaction{}, false, nil
	}

	tx, err = s.ledger.Submit(ledger.Order{
		Side:         side,
		InstrumentID: b.Instrument(),
		Quantity:     b.OrderSize(),
		Price:        price,
		Tick:         tick,
		Source:       "bot:" + b.Name(),
	})
	b.RecordResult(err)
	return tx, true, err
}
