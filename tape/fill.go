// Package tape records simulated executions: it assigns trade ids, drives
// the position ledger, and mirrors every fill to a decorated console
// transcript and a plain durable log.
package tape

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papermm/market"
)

// Fill is one simulated execution. It is constructed once by RecordFill and
// never mutated afterwards; everything downstream reads a copy.
type Fill struct {
	TradeID        int64
	Time           time.Time
	TickSeq        int64
	Instrument     string
	Side           market.Side
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	Notional       decimal.Decimal
	AvgCostAfter   decimal.Decimal
	PositionAfter  decimal.Decimal
	RealizedPnL    decimal.Decimal
	CumRealizedPnL decimal.Decimal
}
