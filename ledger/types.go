package ledger

import (
	"errors"
	"time"

	"github.com/rustyeddy/papersim/market"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientPosition = errors.New("insufficient position")
	ErrUnknownInstrument    = market.ErrUnknownInstrument
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type Status string

const (
	StatusExecuted Status = "EXECUTED"
	StatusPending  Status = "PENDING"
)

// Transaction is one entry of the ledger's log. RealizedPnL is set on
// sells only.
type Transaction struct {
	ID           string    `json:"id"`
	Type         Side      `json:"type"`
	InstrumentID string    `json:"instrument_id"`
	Price        float64   `json:"price"`
	Quantity     float64   `json:"quantity"`
	Timestamp    time.Time `json:"timestamp"`
	Tick         int64     `json:"tick"`
	Status       Status    `json:"status"`
	RealizedPnL  *float64  `json:"realized_pnl,omitempty"`
	Source       string    `json:"source,omitempty"`
}

// Position is a holding in one instrument. AverageCost is the
// volume-weighted cost basis of the quantity bought.
type Position struct {
	InstrumentID string  `json:"instrument_id"`
	Quantity     float64 `json:"quantity"`
	AverageCost  float64 `json:"average_cost"`
}

// Order is a request to trade at a known execution price.
type Order struct {
	Side         Side
	InstrumentID string
	Quantity     float64
	Price        float64
	Tick         int64
	Source       string
}

// Snapshot is a point-in-time copy of the portfolio valued at a set of
// prices.
type Snapshot struct {
	Cash               float64    `json:"cash"`
	Positions          []Position `json:"positions"`
	RealizedPnLTotal   float64    `json:"realized_pnl_total"`
	UnrealizedPnLTotal float64    `json:"unrealized_pnl_total"`
	PositionsValue     float64    `json:"positions_value"`
	NetWorth           float64    `json:"net_worth"`
}
