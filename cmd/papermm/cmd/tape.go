package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papermm/journal"
	"github.com/rustyeddy/papermm/market"
	"github.com/rustyeddy/papermm/tape"
)

var tapeCmd = &cobra.Command{
	Use:   "tape",
	Short: "Print recorded fills from a SQLite journal",
	Long: `Print the execution tape stored in a SQLite journal, one canonical
plain line per fill. Output matches the durable fill-log format exactly.

Example:
  papermm tape --db fills.db --session 01HV3...`,
	RunE: runTape,
}

var (
	tapeDBPath  string
	tapeSession string
)

func init() {
	rootCmd.AddCommand(tapeCmd)

	tapeCmd.Flags().StringVar(&tapeDBPath, "db", "", "path to SQLite journal (required)")
	tapeCmd.Flags().StringVar(&tapeSession, "session", "", "restrict to one session id")
	tapeCmd.MarkFlagRequired("db")
}

func runTape(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(tapeDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	fills, err := j.ListFills(cmd.Context(), tapeSession)
	if err != nil {
		return fmt.Errorf("list fills: %w", err)
	}

	f := tape.NewFormatter(tape.NoTheme())
	for _, rec := range fills {
		side, err := market.ParseSide(rec.Side)
		if err != nil {
			return fmt.Errorf("fill %d: %w", rec.TradeID, err)
		}
		fmt.Println(f.Plain(tape.Fill{
			TradeID:        rec.TradeID,
			Time:           rec.Time,
			TickSeq:        rec.TickSeq,
			Instrument:     rec.Instrument,
			Side:           side,
			Quantity:       rec.Quantity,
			Price:          rec.Price,
			Notional:       rec.Notional,
			AvgCostAfter:   rec.AvgCost,
			PositionAfter:  rec.Position,
			RealizedPnL:    rec.RealizedPnL,
			CumRealizedPnL: rec.CumRealizedPnL,
		}))
	}
	return nil
}
