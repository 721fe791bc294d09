package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTransaction(t TransactionRecord) error {
	var pnl sql.NullFloat64
	if t.RealizedPnL != nil {
		pnl = sql.NullFloat64{Float64: *t.RealizedPnL, Valid: true}
	}
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(tx_id, side, instrument, price, quantity, time, tick, realized_pnl, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Side, t.Instrument, t.Price, t.Quantity, t.Time, t.Tick, pnl, t.Source,
	)
	return err
}

func (j *SQLite) RecordNetWorth(n NetWorthRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO networth
		(time, tick, cash, positions_value, net_worth)
		VALUES (?, ?, ?, ?, ?)`,
		n.Time, n.Tick, n.Cash, n.PositionsValue, n.NetWorth,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
