package ledger

import "github.com/shopspring/decimal"

// Accumulator keeps the running realized-PnL total for one session.
// Append-only addition; no rounding beyond decimal's native precision.
type Accumulator struct {
	total decimal.Decimal
}

// Settle adds the PnL realized by one fill and returns the new total.
func (a *Accumulator) Settle(realized decimal.Decimal) decimal.Decimal {
	a.total = a.total.Add(realized)
	return a.total
}

func (a *Accumulator) Total() decimal.Decimal {
	return a.total
}
