package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTransactionOrg(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	pnl := 250.0
	tx := TransactionRecord{
		ID:          "01HV3K9ZQ8XXXXXXXXXXXXXXXX",
		Side:        "SELL",
		Instrument:  "GOLD",
		Price:       2050.5,
		Quantity:    10,
		Time:        ts,
		Tick:        42,
		RealizedPnL: &pnl,
		Source:      "bot:momo",
	}

	out := FormatTransactionOrg(tx)

	assert.Contains(t, out, "** SELL GOLD (01HV3K9Z)")
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":TX_ID: 01HV3K9ZQ8XXXXXXXXXXXXXXXX")
	assert.Contains(t, out, ":QUANTITY: 10.0000")
	assert.Contains(t, out, ":PRICE: 2050.5000")
	assert.Contains(t, out, ":TIME: 2024-03-15T10:30:45Z")
	assert.Contains(t, out, ":TICK: 42")
	assert.Contains(t, out, ":REALIZED_PNL: 250.00")
	assert.Contains(t, out, ":SOURCE: bot:momo")
	assert.Contains(t, out, ":END:")
	assert.True(t, strings.HasSuffix(out, "*** Notes\n- \n"))
}

func TestFormatTransactionOrgBuyOmitsPnL(t *testing.T) {
	t.Parallel()

	out := FormatTransactionOrg(TransactionRecord{ID: "abc", Side: "BUY", Instrument: "SILVER", Time: time.Now()})
	assert.Contains(t, out, "** BUY SILVER (abc)")
	assert.NotContains(t, out, ":REALIZED_PNL:")
	assert.NotContains(t, out, ":SOURCE:")
}

func TestFormatTransactionsOrg(t *testing.T) {
	t.Parallel()

	assert.Contains(t, FormatTransactionsOrg("2024-03-15", nil), "No transactions.")

	p1, p2 := 10.0, -4.0
	out := FormatTransactionsOrg("2024-03-15", []TransactionRecord{
		{ID: "a", Side: "SELL", Instrument: "GOLD", RealizedPnL: &p1},
		{ID: "b", Side: "SELL", Instrument: "GOLD", RealizedPnL: &p2},
		{ID: "c", Side: "BUY", Instrument: "GOLD"},
	})
	assert.Contains(t, out, "* 2024-03-15\n")
	assert.Contains(t, out, "Transactions: 3, realized P&L: 6.00")
	assert.Equal(t, 3, strings.Count(out, ":PROPERTIES:"))
}
