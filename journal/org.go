package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTransactionOrg renders a TransactionRecord as an Org-mode block
// suitable for pasting into a trading journal. Structured facts live in a
// PROPERTIES drawer; the Notes heading is left for the reader.
func FormatTransactionOrg(t TransactionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s (%s)\n", t.Side, t.Instrument, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TX_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":QUANTITY: %.4f\n", t.Quantity)
	fmt.Fprintf(&b, ":PRICE: %.4f\n", t.Price)
	fmt.Fprintf(&b, ":TIME: %s\n", t.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":TICK: %d\n", t.Tick)
	if t.RealizedPnL != nil {
		fmt.Fprintf(&b, ":REALIZED_PNL: %.2f\n", *t.RealizedPnL)
	}
	if t.Source != "" {
		fmt.Fprintf(&b, ":SOURCE: %s\n", t.Source)
	}
	b.WriteString(":END:\n")
	b.WriteString("\n*** Notes\n- \n")
	return b.String()
}

// FormatTransactionsOrg renders a list of transactions under a dated
// heading.
func FormatTransactionsOrg(title string, txs []TransactionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* %s\n", title)
	if len(txs) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	var pnl float64
	for _, t := range txs {
		if t.RealizedPnL != nil {
			pnl += *t.RealizedPnL
		}
	}
	fmt.Fprintf(&b, "Transactions: %d, realized P&L: %.2f\n\n", len(txs), pnl)
	for _, t := range txs {
		b.WriteString(FormatTransactionOrg(t))
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
