package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txPath := filepath.Join(dir, "transactions.csv")
	nwPath := filepath.Join(dir, "networth.csv")

	j, err := NewCSV(txPath, nwPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	tx := readCSV(t, txPath)
	nw := readCSV(t, nwPath)

	require.Len(t, tx, 1)
	require.Len(t, nw, 1)
	assert.Equal(t, []string{"tx_id", "side", "instrument", "price", "quantity", "time", "tick", "realized_pnl", "source"}, tx[0])
	assert.Equal(t, []string{"time", "tick", "cash", "positions_value", "net_worth"}, nw[0])
}

func TestCSVJournalRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txPath := filepath.Join(dir, "transactions.csv")
	nwPath := filepath.Join(dir, "networth.csv")

	j, err := NewCSV(txPath, nwPath)
	require.NoError(t, err)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	pnl := 50.0

	require.NoError(t, j.RecordTransaction(TransactionRecord{
		ID: "A", Side: "BUY", Instrument: "GOLD", Price: 100, Quantity: 100, Time: ts, Tick: 1, Source: "manual",
	}))
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		ID: "B", Side: "SELL", Instrument: "GOLD", Price: 101, Quantity: 50, Time: ts, Tick: 2, RealizedPnL: &pnl,
	}))
	require.NoError(t, j.RecordNetWorth(NetWorthRecord{
		Time: ts, Tick: 5, Cash: 9_995_050, PositionsValue: 5050, NetWorth: 10_000_100,
	}))
	require.NoError(t, j.Close())

	tx := readCSV(t, txPath)
	require.Len(t, tx, 3)
	assert.Equal(t, []string{"A", "BUY", "GOLD", "100.000000", "100.000000", ts.Format(time.RFC3339Nano), "1", "", "manual"}, tx[1])
	assert.Equal(t, "50.000000", tx[2][7])
	assert.Equal(t, "", tx[2][8])

	nw := readCSV(t, nwPath)
	require.Len(t, nw, 2)
	assert.Equal(t, "5", nw[1][1])
	assert.Equal(t, "10000100.000000", nw[1][4])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "tx.csv"), filepath.Join(dir, "nw.csv"))
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	var j Journal = Discard{}
	assert.NoError(t, j.RecordTransaction(TransactionRecord{ID: "x"}))
	assert.NoError(t, j.RecordNetWorth(NetWorthRecord{}))
	assert.NoError(t, j.Close())
}

type failingFile struct {
	failWrites bool
	closed     bool
}

func (f *failingFile) Write(p []byte) (int, error) {
	if f.failWrites {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func (f *failingFile) Close() error {
	f.closed = true
	return nil
}

func TestCSVHeaderFailureClosesBothFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tx, nw *failingFile
	}{
		{"transactions header", &failingFile{failWrites: true}, &failingFile{}},
		{"networth header", &failingFile{}, &failingFile{failWrites: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := newCSV(tt.tx, tt.nw)
			require.Error(t, err)
			assert.Nil(t, j)
			assert.Contains(t, err.Error(), "disk full")
			assert.True(t, tt.tx.closed)
			assert.True(t, tt.nw.closed)
		})
	}
}
