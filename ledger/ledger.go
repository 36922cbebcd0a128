// Package ledger holds per-instrument position state and the cost-basis /
// realized-PnL accounting applied by each simulated fill.
//
// All quantities and monetary values use shopspring/decimal — never float64
// for money — so long sessions accumulate no binary drift.
package ledger

import (
	"errors"

	"github.com/rustyeddy/papermm/market"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("ledger: quantity must be positive")
	ErrInvalidPrice    = errors.New("ledger: price must be positive")
)

// Position is the mutable per-instrument state, owned exclusively by the
// Ledger. AvgEntryPrice is meaningful only while the position is open; a
// flat position stores decimal zero (see Flat).
type Position struct {
	NetQuantity   decimal.Decimal
	AvgEntryPrice decimal.Decimal
	Cash          decimal.Decimal
}

// Flat reports whether the position is exactly zero, in which case
// AvgEntryPrice carries no information.
func (p Position) Flat() bool {
	return p.NetQuantity.IsZero()
}

// Application is what one fill did to the books.
type Application struct {
	RealizedPnL   decimal.Decimal
	AvgCostAfter  decimal.Decimal
	PositionAfter decimal.Decimal
}

// Ledger maps instrument -> Position. It is not safe for concurrent use;
// the execution tape serializes access.
type Ledger struct {
	positions map[string]*Position
}

func New() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

// Apply books one fill against the instrument's position.
//
// The position transition is one of a closed set of cases:
//
//	extend        same direction (or flat): avg entry becomes the
//	              quantity-weighted average, nothing is realized
//	partialClose  opposite direction, smaller than the position: PnL is
//	              realized on the closing quantity, avg entry unchanged
//	fullClose     opposite direction, exactly the position: PnL realized,
//	              position goes flat, avg entry cleared
//	reverse       opposite direction, larger than the position: PnL realized
//	              on the old position, avg entry re-seeded at the fill price
//	              for the opening remainder
//
// Validation happens before any mutation, so a rejected fill leaves the
// ledger untouched.
func (l *Ledger) Apply(instrument string, side market.Side, quantity, price decimal.Decimal) (Application, error) {
	if quantity.Sign() <= 0 {
		return Application{}, ErrInvalidQuantity
	}
	if price.Sign() <= 0 {
		return Application{}, ErrInvalidPrice
	}

	pos, ok := l.positions[instrument]
	if !ok {
		pos = &Position{}
		l.positions[instrument] = pos
	}

	signed := quantity.Mul(decimal.NewFromInt(int64(side.Sign())))

	var realized decimal.Decimal

	switch {
	case pos.NetQuantity.IsZero() || pos.NetQuantity.Sign() == signed.Sign():
		// extend
		total := pos.NetQuantity.Add(signed)
		held := pos.AvgEntryPrice.Mul(pos.NetQuantity.Abs())
		added := price.Mul(quantity)
		pos.AvgEntryPrice = held.Add(added).Div(total.Abs())
		pos.NetQuantity = total

	default:
		closing := decimal.Min(pos.NetQuantity.Abs(), quantity)
		dir := decimal.NewFromInt(int64(pos.NetQuantity.Sign()))
		realized = closing.Mul(price.Sub(pos.AvgEntryPrice)).Mul(dir)

		opening := quantity.Sub(closing)
		pos.NetQuantity = pos.NetQuantity.Add(signed)

		switch {
		case opening.Sign() > 0:
			// reverse: the remainder opens at the fill price
			pos.AvgEntryPrice = price
		case pos.NetQuantity.IsZero():
			// fullClose
			pos.AvgEntryPrice = decimal.Zero
		}
		// partialClose keeps the entry price
	}

	// Cash moves with the fill regardless of transition case; it is an
	// audit trail independent of realized PnL.
	notional := price.Mul(quantity)
	if side == market.Buy {
		pos.Cash = pos.Cash.Sub(notional)
	} else {
		pos.Cash = pos.Cash.Add(notional)
	}

	return Application{
		RealizedPnL:   realized,
		AvgCostAfter:  pos.AvgEntryPrice,
		PositionAfter: pos.NetQuantity,
	}, nil
}

// Position returns a copy of the instrument's state.
func (l *Ledger) Position(instrument string) (Position, bool) {
	pos, ok := l.positions[instrument]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Instruments lists every instrument that has seen at least one fill.
func (l *Ledger) Instruments() []string {
	out := make([]string, 0, len(l.positions))
	for m := range l.positions {
		out = append(out, m)
	}
	return out
}

// TotalCash sums the cash deltas across all instruments.
func (l *Ledger) TotalCash() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range l.positions {
		total = total.Add(pos.Cash)
	}
	return total
}
