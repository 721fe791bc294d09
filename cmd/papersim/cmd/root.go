package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papersim",
	Short: "A market simulator with a paper-trading ledger",
	Long: `Papersim simulates a market of correlated instruments and lets you trade
it with paper money.

It provides:
  - A tick-driven price engine with sentiment, news shocks and correlations
  - Synthetic order books around the current price
  - A ledger with cost basis and realized/unrealized P&L
  - Trading bots (momentum, mean-reversion, arbitrage)
  - A JSON/WebSocket API and Prometheus metrics
  - Optional CSV or SQLite journals of every trade and net-worth sample`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); built-in demo config when empty")
}
