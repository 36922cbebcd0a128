package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papermm",
	Short: "A paper market-making simulator with a durable execution tape",
	Long: `Papermm quotes simulated markets against live public market data and
records every synthetic fill on an auditable execution tape.

It provides tools for:
  - Running paper market-making sessions from a config file
  - Streaming top-of-book and trade data over websockets
  - Selecting quotable markets by spread and tape activity
  - Average-cost position and realized PnL accounting
  - Dual-sink fill logging (colorized console + plain durable log)
  - Journaling fills and equity to CSV or SQLite

No orders ever reach a real venue.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
