// Package ledger tracks cash, positions, and realized P&L for a single
// paper-trading account, and keeps a bounded log of executed transactions.
//
// Buy and Sell are all-or-nothing: a rejected order leaves cash, positions
// and the log untouched.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/papersim/internal/ring"
	"github.com/rustyeddy/papersim/pkg/id"
)

const (
	DefaultLogCap  = 100
	DefaultEpsilon = 1e-9
)

// Ledger is not safe for concurrent use; the owning simulation serializes
// access.
type Ledger struct {
	cash      float64
	realized  float64
	positions map[string]*Position
	log       *ring.Buffer[Transaction]
	epsilon   float64
	now       func() time.Time
	newID     func() string
}

type Option func(*Ledger)

// WithLogCap bounds the transaction log.
func WithLogCap(n int) Option {
	return func(l *Ledger) { l.log = ring.New[Transaction](n) }
}

// WithEpsilon sets the quantity below which a position is considered closed.
func WithEpsilon(eps float64) Option {
	return func(l *Ledger) {
		if eps > 0 {
			l.epsilon = eps
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDs(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

func New(cash float64, opts ...Option) *Ledger {
	l := &Ledger{
		cash:      cash,
		positions: make(map[string]*Position),
		log:       ring.New[Transaction](DefaultLogCap),
		epsilon:   DefaultEpsilon,
		now:       time.Now,
		newID:     id.New,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Ledger) Cash() float64 { return l.cash }

func (l *Ledger) RealizedPnLTotal() float64 { return l.realized }

// Buy debits quantity*price and adds to the position in instrumentID.
func (l *Ledger) Buy(instrumentID string, quantity, price float64) (Transaction, error) {
	return l.Submit(Order{Side: SideBuy, InstrumentID: instrumentID, Quantity: quantity, Price: price})
}

// Sell credits quantity*price, realizing (price-averageCost)*quantity.
func (l *Ledger) Sell(instrumentID string, quantity, price float64) (Transaction, error) {
	return l.Submit(Order{Side: SideSell, InstrumentID: instrumentID, Quantity: quantity, Price: price})
}

// Submit executes o immediately at o.Price.
func (l *Ledger) Submit(o Order) (Transaction, error) {
	if err := validate(o); err != nil {
		return Transaction{}, err
	}
	switch o.Side {
	case SideBuy:
		return l.buy(o)
	case SideSell:
		return l.sell(o)
	default:
		return Transaction{}, fmt.Errorf("unknown order side %q", o.Side)
	}
}

func validate(o Order) error {
	if !(o.Quantity > 0) || math.IsInf(o.Quantity, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, o.Quantity)
	}
	if !(o.Price > 0) || math.IsInf(o.Price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, o.Price)
	}
	return nil
}

func (l *Ledger) buy(o Order) (Transaction, error) {
	cost := o.Quantity * o.Price
	if l.cash < cost {
		return Transaction{}, fmt.Errorf("%w: buy %s %v @ %.4f needs %.2f, have %.2f",
			ErrInsufficientFunds, o.InstrumentID, o.Quantity, o.Price, cost, l.cash)
	}

	l.cash -= cost
	if p, ok := l.positions[o.InstrumentID]; ok {
		qty := p.Quantity + o.Quantity
		p.AverageCost = (p.Quantity*p.AverageCost + o.Quantity*o.Price) / qty
		p.Quantity = qty
	} else {
		l.positions[o.InstrumentID] = &Position{
			InstrumentID: o.InstrumentID,
			Quantity:     o.Quantity,
			AverageCost:  o.Price,
		}
	}
	return l.record(o, nil), nil
}

func (l *Ledger) sell(o Order) (Transaction, error) {
	p, ok := l.positions[o.InstrumentID]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: no position in %s", ErrInsufficientPosition, o.InstrumentID)
	}
	if p.Quantity < o.Quantity {
		return Transaction{}, fmt.Errorf("%w: sell %s %v, hold %v",
			ErrInsufficientPosition, o.InstrumentID, o.Quantity, p.Quantity)
	}

	pnl := (o.Price - p.AverageCost) * o.Quantity
	l.cash += o.Quantity * o.Price
	l.realized += pnl

	p.Quantity -= o.Quantity
	if p.Quantity < l.epsilon {
		delete(l.positions, o.InstrumentID)
	}
	return l.record(o, &pnl), nil
}

func (l *Ledger) record(o Order, pnl *float64) Transaction {
	tx := Transaction{
		ID:           l.newID(),
		Type:         o.Side,
		InstrumentID: o.InstrumentID,
		Price:        o.Price,
		Quantity:     o.Quantity,
		Timestamp:    l.now(),
		Tick:         o.Tick,
		Status:       StatusExecuted,
		RealizedPnL:  pnl,
		Source:       o.Source,
	}
	l.log.Push(tx)
	return tx
}

// Position returns a copy of the holding in instrumentID.
func (l *Ledger) Position(instrumentID string) (Position, bool) {
	p, ok := l.positions[instrumentID]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions returns copies of all open positions ordered by instrument.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstrumentID < out[j].InstrumentID })
	return out
}

// Transactions returns up to limit log entries, newest first. A limit <= 0
// returns the whole log.
func (l *Ledger) Transactions(limit int) []Transaction {
	return l.log.Newest(limit)
}

func (l *Ledger) LogCap() int { return l.log.Cap() }

// UnrealizedPnL sums (price-averageCost)*quantity over open positions. A
// position with no entry in prices is marked at its average cost.
func (l *Ledger) UnrealizedPnL(prices map[string]float64) float64 {
	var total float64
	for id, p := range l.positions {
		total += (mark(prices, id, p.AverageCost) - p.AverageCost) * p.Quantity
	}
	return total
}

// PositionsValue sums quantity*price over open positions.
func (l *Ledger) PositionsValue(prices map[string]float64) float64 {
	var total float64
	for id, p := range l.positions {
		total += p.Quantity * mark(prices, id, p.AverageCost)
	}
	return total
}

// NetWorth is cash plus the market value of every open position.
func (l *Ledger) NetWorth(prices map[string]float64) float64 {
	return l.cash + l.PositionsValue(prices)
}

func (l *Ledger) Snapshot(prices map[string]float64) Snapshot {
	value := l.PositionsValue(prices)
	return Snapshot{
		Cash:               l.cash,
		Positions:          l.Positions(),
		RealizedPnLTotal:   l.realized,
		UnrealizedPnLTotal: l.UnrealizedPnL(prices),
		PositionsValue:     value,
		NetWorth:           l.cash + value,
	}
}

func mark(prices map[string]float64, id string, fallback float64) float64 {
	if p, ok := prices[id]; ok {
		return p
	}
	return fallback
}
