// journal/journal.go
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillRecord is the durable form of one simulated execution. Decimals are
// persisted as text so nothing is lost to binary rounding.
type FillRecord struct {
	SessionID      string
	TradeID        int64
	Time           time.Time
	TickSeq        int64
	Instrument     string
	Side           string
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	Notional       decimal.Decimal
	AvgCost        decimal.Decimal
	Position       decimal.Decimal
	RealizedPnL    decimal.Decimal
	CumRealizedPnL decimal.Decimal
}

// EquitySnapshot is a periodic mark-to-market of the whole session.
type EquitySnapshot struct {
	SessionID   string
	Time        time.Time
	Cash        decimal.Decimal
	Equity      decimal.Decimal
	RealizedPnL decimal.Decimal
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
