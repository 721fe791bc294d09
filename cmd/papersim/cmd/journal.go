package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/papersim/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the transaction journal",
	Long: `Query and display journal records from a SQLite database.

Subcommands:
  tx       - Show a transaction by ID
  today    - List transactions executed today
  day      - List transactions executed on a specific day
  networth - List net-worth samples for a day

Examples:
  papersim journal tx 01HV3K9ZQ8...
  papersim journal today
  papersim journal day 2024-01-15`,
}

var journalTxCmd = &cobra.Command{
	Use:   "tx <tx-id>",
	Short: "Show a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTx,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List transactions executed today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listJournalDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
	},
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List transactions executed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listJournalDay(cmd, args[0])
	},
}

var journalNetWorthCmd = &cobra.Command{
	Use:   "networth [YYYY-MM-DD]",
	Short: "List net-worth samples for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalNetWorth,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTxCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalNetWorthCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./papersim.sqlite", "path to SQLite journal DB")
}

func runJournalTx(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetTransaction(args[0])
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTransactionOrg(rec))
	return nil
}

func listJournalDay(cmd *cobra.Command, day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTransactionsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTransactionsOrg(day, recs))
	return nil
}

func runJournalNetWorth(cmd *cobra.Command, args []string) error {
	day := time.Now().In(time.Local).Format("2006-01-02")
	if len(args) == 1 {
		day = args[0]
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListNetWorthBetween(start, end)
	if err != nil {
		return fmt.Errorf("query net worth: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintf(out, "No net-worth samples on %s\n", day)
		return nil
	}
	fmt.Fprintf(out, "%-25s %8s %16s %16s %16s\n", "time", "tick", "cash", "positions", "net worth")
	for _, r := range recs {
		fmt.Fprintf(out, "%-25s %8d %16.2f %16.2f %16.2f\n",
			r.Time.In(time.Local).Format(time.RFC3339), r.Tick, r.Cash, r.PositionsValue, r.NetWorth)
	}
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
