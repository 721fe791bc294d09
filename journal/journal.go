// Package journal is a write-only audit trail for a simulation: every
// executed transaction and every net-worth sample can be exported to CSV
// files or a SQLite database. The simulation never reads it back.
package journal

import "time"

type TransactionRecord struct {
	ID          string
	Side        string
	Instrument  string
	Price       float64
	Quantity    float64
	Time        time.Time
	Tick        int64
	RealizedPnL *float64 // nil for buys
	Source      string
}

type NetWorthRecord struct {
	Time           time.Time
	Tick           int64
	Cash           float64
	PositionsValue float64
	NetWorth       float64
}

type Journal interface {
	RecordTransaction(TransactionRecord) error
	RecordNetWorth(NetWorthRecord) error
	Close() error
}

// Discard is a Journal that drops everything.
type Discard struct{}

func (Discard) RecordTransaction(TransactionRecord) error { return nil }
func (Discard) RecordNetWorth(NetWorthRecord) error       { return nil }
func (Discard) Close() error                              { return nil }
