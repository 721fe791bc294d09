package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/metrics"
)

const sourceManual = "manual"

// Buy executes a market buy at the current price.
func (s *State) Buy(instrumentID string, quantity float64) (ledger.Transaction, error) {
	return s.trade(ledger.SideBuy, instrumentID, quantity)
}

// Sell executes a market sell at the current price.
func (s *State) Sell(instrumentID string, quantity float64) (ledger.Transaction, error) {
	return s.trade(ledger.SideSell, instrumentID, quantity)
}

func (s *State) trade(side ledger.Side, instrumentID string, quantity float64) (ledger.Transaction, error) {
	s.mu.Lock()

	price, ok := s.engine.Price(instrumentID)
	if !ok {
		s.mu.Unlock()
		metrics.OrderRejections.WithLabelValues(rejectReason(ErrUnknownInstrument)).Inc()
		return ledger.Transaction{}, fmt.Errorf("%s %s: %w", side, instrumentID, ErrUnknownInstrument)
	}

	tx, err := s.ledger.Submit(ledger.Order{
		Side:         side,
		InstrumentID: instrumentID,
		Quantity:     quantity,
		Price:        price,
		Tick:         s.engine.TickCount(),
		Source:       sourceManual,
	})
	if err != nil {
		s.mu.Unlock()
		metrics.OrderRejections.WithLabelValues(rejectReason(err)).Inc()
		return ledger.Transaction{}, err
	}
	s.observeCash()
	s.mu.Unlock()

	metrics.OrdersTotal.WithLabelValues(string(side), sourceManual).Inc()
	s.log.Info("order executed",
		"side", side,
		"instrument", instrumentID,
		"quantity", quantity,
		"price", price,
		"tx", tx.ID,
	)
	s.exportTransactions([]ledger.Transaction{tx})
	return tx, nil
}

// observeCash publishes cash and net worth gauges. Callers hold s.mu.
func (s *State) observeCash() {
	metrics.Cash.Set(s.ledger.Cash())
	metrics.NetWorth.Set(s.ledger.NetWorth(s.engine.Prices()))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrInsufficientPosition):
		return "insufficient_position"
	case errors.Is(err, ledger.ErrUnknownInstrument):
		return "unknown_instrument"
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ledger.ErrInvalidPrice):
		return "invalid_price"
	default:
		return "other"
	}
}
