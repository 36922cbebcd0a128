package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(session_id, trade_id, time, tick_seq, instrument, side, quantity, price, notional, avg_cost, position, realized_pnl, cum_realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.SessionID, f.TradeID, f.Time, f.TickSeq, f.Instrument, f.Side,
		f.Quantity.String(), f.Price.String(), f.Notional.String(),
		f.AvgCost.String(), f.Position.String(),
		f.RealizedPnL.String(), f.CumRealizedPnL.String(),
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(session_id, time, cash, equity, realized_pnl)
		VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Time, e.Cash.String(), e.Equity.String(), e.RealizedPnL.String(),
	)
	return err
}

// ListFills returns a session's fills ordered by trade id. An empty
// sessionID selects every session.
func (j *SQLiteJournal) ListFills(ctx context.Context, sessionID string) ([]FillRecord, error) {
	query := `
		SELECT session_id, trade_id, time, tick_seq, instrument, side, quantity, price, notional, avg_cost, position, realized_pnl, cum_realized_pnl
		FROM fills`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY session_id, trade_id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var (
			f                                          FillRecord
			t                                          time.Time
			qty, px, notional, avg, pos, rpnl, rpnltot string
		)
		err := rows.Scan(&f.SessionID, &f.TradeID, &t, &f.TickSeq, &f.Instrument, &f.Side,
			&qty, &px, &notional, &avg, &pos, &rpnl, &rpnltot)
		if err != nil {
			return nil, err
		}
		f.Time = t
		if f.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("fill %d quantity: %w", f.TradeID, err)
		}
		if f.Price, err = decimal.NewFromString(px); err != nil {
			return nil, fmt.Errorf("fill %d price: %w", f.TradeID, err)
		}
		if f.Notional, err = decimal.NewFromString(notional); err != nil {
			return nil, fmt.Errorf("fill %d notional: %w", f.TradeID, err)
		}
		if f.AvgCost, err = decimal.NewFromString(avg); err != nil {
			return nil, fmt.Errorf("fill %d avg_cost: %w", f.TradeID, err)
		}
		if f.Position, err = decimal.NewFromString(pos); err != nil {
			return nil, fmt.Errorf("fill %d position: %w", f.TradeID, err)
		}
		if f.RealizedPnL, err = decimal.NewFromString(rpnl); err != nil {
			return nil, fmt.Errorf("fill %d realized_pnl: %w", f.TradeID, err)
		}
		if f.CumRealizedPnL, err = decimal.NewFromString(rpnltot); err != nil {
			return nil, fmt.Errorf("fill %d cum_realized_pnl: %w", f.TradeID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
