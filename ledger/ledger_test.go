package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papermm/market"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func apply(t *testing.T, l *Ledger, side market.Side, qty, px string) Application {
	t.Helper()
	app, err := l.Apply("BTC-USD", side, d(qty), d(px))
	require.NoError(t, err)
	return app
}

// Walks a long position through extend, partial close, full close, then a
// short through extend, partial close, and a reversal back to long.
func TestApplyTransitionCases(t *testing.T) {
	l := New()

	// open long
	app := apply(t, l, market.Buy, "1", "100")
	assert.True(t, app.RealizedPnL.IsZero())
	assert.True(t, app.AvgCostAfter.Equal(d("100")))
	assert.True(t, app.PositionAfter.Equal(d("1")))

	// extend long, weighted average
	app = apply(t, l, market.Buy, "1", "110")
	assert.True(t, app.RealizedPnL.IsZero())
	assert.True(t, app.AvgCostAfter.Equal(d("105")))
	assert.True(t, app.PositionAfter.Equal(d("2")))

	// partial close: realize (120-105)*1, avg unchanged
	app = apply(t, l, market.Sell, "1", "120")
	assert.True(t, app.RealizedPnL.Equal(d("15")))
	assert.True(t, app.AvgCostAfter.Equal(d("105")))
	assert.True(t, app.PositionAfter.Equal(d("1")))

	// full close: realize (130-105)*1, avg cleared
	app = apply(t, l, market.Sell, "1", "130")
	assert.True(t, app.RealizedPnL.Equal(d("25")))
	assert.True(t, app.AvgCostAfter.IsZero())
	assert.True(t, app.PositionAfter.IsZero())

	pos, ok := l.Position("BTC-USD")
	require.True(t, ok)
	assert.True(t, pos.Flat())

	// open short
	app = apply(t, l, market.Sell, "2", "125")
	assert.True(t, app.RealizedPnL.IsZero())
	assert.True(t, app.AvgCostAfter.Equal(d("125")))
	assert.True(t, app.PositionAfter.Equal(d("-2")))

	// extend short: (125*2 + 120*1) / 3
	app = apply(t, l, market.Sell, "1", "120")
	assert.True(t, app.RealizedPnL.IsZero())
	assert.True(t, app.AvgCostAfter.Equal(d("370").Div(d("3"))))
	assert.True(t, app.PositionAfter.Equal(d("-3")))

	// partial close short: realize (avg-115)*1
	avg := d("370").Div(d("3"))
	app = apply(t, l, market.Buy, "1", "115")
	assert.True(t, app.RealizedPnL.Equal(avg.Sub(d("115"))))
	assert.True(t, app.AvgCostAfter.Equal(avg))
	assert.True(t, app.PositionAfter.Equal(d("-2")))

	// reverse short to long: realize on 2 closing, re-seed avg at fill price
	app = apply(t, l, market.Buy, "4", "110")
	assert.True(t, app.RealizedPnL.Equal(avg.Sub(d("110")).Mul(d("2"))))
	assert.True(t, app.AvgCostAfter.Equal(d("110")))
	assert.True(t, app.PositionAfter.Equal(d("2")))
}

func TestApplyCashTracking(t *testing.T) {
	l := New()

	apply(t, l, market.Buy, "0.01", "50000") // -500
	apply(t, l, market.Sell, "0.005", "50500") // +252.50

	pos, ok := l.Position("BTC-USD")
	require.True(t, ok)
	assert.True(t, pos.Cash.Equal(d("-247.50")), "cash=%s", pos.Cash)
	assert.True(t, l.TotalCash().Equal(d("-247.50")))
}

func TestApplyInstrumentsIndependent(t *testing.T) {
	l := New()

	_, err := l.Apply("BTC-USD", market.Buy, d("0.01"), d("50000"))
	require.NoError(t, err)
	_, err = l.Apply("ETH-USD", market.Buy, d("0.15"), d("3000"))
	require.NoError(t, err)

	btc, ok := l.Position("BTC-USD")
	require.True(t, ok)
	eth, ok := l.Position("ETH-USD")
	require.True(t, ok)

	assert.True(t, btc.AvgEntryPrice.Equal(d("50000")))
	assert.True(t, eth.AvgEntryPrice.Equal(d("3000")))
	assert.ElementsMatch(t, []string{"BTC-USD", "ETH-USD"}, l.Instruments())
}

func TestApplyRejectsBadInput(t *testing.T) {
	l := New()

	_, err := l.Apply("BTC-USD", market.Buy, decimal.Zero, d("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.Apply("BTC-USD", market.Buy, d("-1"), d("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.Apply("BTC-USD", market.Buy, d("1"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = l.Apply("BTC-USD", market.Sell, d("1"), d("-5"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// a rejected fill must not create state
	_, ok := l.Position("BTC-USD")
	assert.False(t, ok)
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator

	assert.True(t, acc.Settle(d("2.50")).Equal(d("2.50")))
	assert.True(t, acc.Settle(d("-1.25")).Equal(d("1.25")))
	assert.True(t, acc.Settle(decimal.Zero).Equal(d("1.25")))
	assert.True(t, acc.Total().Equal(d("1.25")))
}

// Exact decimal accumulation: a value that drifts under float64 stays exact.
func TestAccumulatorNoDrift(t *testing.T) {
	var acc Accumulator
	for i := 0; i < 1000; i++ {
		acc.Settle(d("0.1"))
	}
	assert.True(t, acc.Total().Equal(d("100")), "total=%s", acc.Total())
}
