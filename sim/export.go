package sim

import (
	"github.com/rustyeddy/papersim/journal"
	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/networth"
)

// The journal is written outside s.mu from copied records. A failing
// journal is logged and otherwise ignored.

func (s *State) exportTransactions(txs []ledger.Transaction) {
	for _, tx := range txs {
		rec := journal.TransactionRecord{
			ID:          tx.ID,
			Side:        string(tx.Type),
			Instrument:  tx.InstrumentID,
			Price:       tx.Price,
			Quantity:    tx.Quantity,
			Time:        tx.Timestamp,
			Tick:        tx.Tick,
			RealizedPnL: tx.RealizedPnL,
			Source:      tx.Source,
		}
		if err := s.journal.RecordTransaction(rec); err != nil {
			s.log.Error("journal transaction", "tx", tx.ID, "err", err)
		}
	}
}

func (s *State) exportNetWorth(smp networth.Sample) {
	err := s.journal.RecordNetWorth(journal.NetWorthRecord{
		Time:           smp.Time,
		Tick:           smp.Tick,
		Cash:           smp.Cash,
		PositionsValue: smp.PositionsValue,
		NetWorth:       smp.NetWorth,
	})
	if err != nil {
		s.log.Error("journal net worth", "tick", smp.Tick, "err", err)
	}
}
