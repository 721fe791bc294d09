package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

type CSVJournal struct {
	mu           sync.Mutex
	transactions *csv.Writer
	networth     *csv.Writer
	tf, nf       io.Closer
}

var (
	transactionsHeader = []string{"tx_id", "side", "instrument", "price", "quantity", "time", "tick", "realized_pnl", "source"}
	networthHeader     = []string{"time", "tick", "cash", "positions_value", "net_worth"}
)

func NewCSV(transactionsPath, networthPath string) (*CSVJournal, error) {
	tf, err := os.Create(transactionsPath)
	if err != nil {
		return nil, err
	}
	nf, err := os.Create(networthPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return newCSV(tf, nf)
}

// newCSV writes both headers. Both files are closed if either write fails.
func newCSV(tf, nf io.WriteCloser) (*CSVJournal, error) {
	tw := csv.NewWriter(tf)
	nw := csv.NewWriter(nf)

	if err := writeRow(tw, transactionsHeader); err != nil {
		return nil, errors.Join(fmt.Errorf("write transactions header: %w", err), tf.Close(), nf.Close())
	}
	if err := writeRow(nw, networthHeader); err != nil {
		return nil, errors.Join(fmt.Errorf("write networth header: %w", err), tf.Close(), nf.Close())
	}
	return &CSVJournal{transactions: tw, networth: nw, tf: tf, nf: nf}, nil
}

func writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordTransaction(t TransactionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	pnl := ""
	if t.RealizedPnL != nil {
		pnl = f(*t.RealizedPnL)
	}
	return writeRow(j.transactions, []string{
		t.ID,
		t.Side,
		t.Instrument,
		f(t.Price),
		f(t.Quantity),
		t.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(t.Tick, 10),
		pnl,
		t.Source,
	})
}

func (j *CSVJournal) RecordNetWorth(n NetWorthRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return writeRow(j.networth, []string{
		n.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(n.Tick, 10),
		f(n.Cash),
		f(n.PositionsValue),
		f(n.NetWorth),
	})
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.transactions.Flush()
	j.networth.Flush()
	return errors.Join(j.transactions.Error(), j.networth.Error(), j.tf.Close(), j.nf.Close())
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
