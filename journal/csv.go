// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

func NewCSV(fillsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	if err := fw.Write([]string{"session_id", "trade_id", "time", "tick_seq", "instrument", "side", "quantity", "price", "notional", "avg_cost", "position", "realized_pnl", "cum_realized_pnl"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"session_id", "time", "cash", "equity", "realized_pnl"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fw, ew, ff, ef}, nil
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	err := j.fills.Write([]string{
		f.SessionID,
		strconv.FormatInt(f.TradeID, 10),
		f.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(f.TickSeq, 10),
		f.Instrument,
		f.Side,
		f.Quantity.String(),
		f.Price.String(),
		f.Notional.String(),
		f.AvgCost.String(),
		f.Position.String(),
		f.RealizedPnL.String(),
		f.CumRealizedPnL.String(),
	})
	if err != nil {
		return err
	}

	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.SessionID,
		e.Time.Format(time.RFC3339Nano),
		e.Cash.String(),
		e.Equity.String(),
		e.RealizedPnL.String(),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.ff.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}
