package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const transactionColumns = `tx_id, side, instrument, price, quantity, time, tick, realized_pnl, source`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (TransactionRecord, error) {
	var (
		rec TransactionRecord
		pnl sql.NullFloat64
	)
	err := s.Scan(
		&rec.ID,
		&rec.Side,
		&rec.Instrument,
		&rec.Price,
		&rec.Quantity,
		&rec.Time,
		&rec.Tick,
		&pnl,
		&rec.Source,
	)
	if err != nil {
		return TransactionRecord{}, err
	}
	if pnl.Valid {
		v := pnl.Float64
		rec.RealizedPnL = &v
	}
	return rec, nil
}

// GetTransaction returns a single transaction by ID.
func (j *SQLite) GetTransaction(id string) (TransactionRecord, error) {
	row := j.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE tx_id = ?`, id)
	rec, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TransactionRecord{}, fmt.Errorf("transaction %q not found", id)
		}
		return TransactionRecord{}, err
	}
	return rec, nil
}

// ListTransactionsBetween returns transactions executed within [start, end),
// oldest first.
func (j *SQLite) ListTransactionsBetween(start, end time.Time) ([]TransactionRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, tx_id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNetWorthBetween returns net-worth samples within [start, end), oldest
// first.
func (j *SQLite) ListNetWorthBetween(start, end time.Time) ([]NetWorthRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, tick, cash, positions_value, net_worth
		FROM networth
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, tick ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NetWorthRecord
	for rows.Next() {
		var rec NetWorthRecord
		if err := rows.Scan(&rec.Time, &rec.Tick, &rec.Cash, &rec.PositionsValue, &rec.NetWorth); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RealizedPnLBetween sums realized P&L of sells executed within [start, end).
func (j *SQLite) RealizedPnLBetween(start, end time.Time) (float64, error) {
	var total sql.NullFloat64
	err := j.db.QueryRow(`
		SELECT SUM(realized_pnl) FROM transactions
		WHERE realized_pnl IS NOT NULL AND time >= ? AND time < ?`, start, end).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
