package tape

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papermm/market"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleFill(tradeID int64, side market.Side) Fill {
	qty := d("0.01")
	px := d("50000")
	return Fill{
		TradeID:        tradeID,
		Time:           time.Date(2024, 3, 4, 12, 34, 56, 789000000, time.UTC),
		TickSeq:        tradeID,
		Instrument:     "BTC-USD",
		Side:           side,
		Quantity:       qty,
		Price:          px,
		Notional:       qty.Mul(px),
		AvgCostAfter:   px,
		PositionAfter:  qty,
		RealizedPnL:    decimal.Zero,
		CumRealizedPnL: decimal.Zero,
	}
}

func TestPlainLineContract(t *testing.T) {
	f := NewFormatter(DefaultTheme())

	want := "#00001 | 12:34:56.789 | tick=1 | BTC-USD | BUY | 0.0100 @50000.00 | $500.00 | avg=50000.00 | pos=+0.0100 | rPnL=+0.00 | rPnLtot=+0.00"
	assert.Equal(t, want, f.Plain(sampleFill(1, market.Buy)))
}

func TestPlainLineNegativeFields(t *testing.T) {
	f := NewFormatter(DefaultTheme())

	fill := sampleFill(3, market.Sell)
	fill.Quantity = d("0.005")
	fill.Price = d("50500")
	fill.Notional = d("252.50")
	fill.AvgCostAfter = d("50000")
	fill.PositionAfter = d("-0.005")
	fill.RealizedPnL = d("-2.5")
	fill.CumRealizedPnL = d("-2.5")

	want := "#00003 | 12:34:56.789 | tick=3 | BTC-USD | SELL | 0.0050 @50500.00 | $252.50 | avg=50000.00 | pos=-0.0050 | rPnL=-2.50 | rPnLtot=-2.50"
	assert.Equal(t, want, f.Plain(fill))
}

func TestRenderRoundTrip(t *testing.T) {
	f := NewFormatter(DefaultTheme())

	for id := int64(1); id <= 12; id++ {
		side := market.Buy
		if id%3 == 0 {
			side = market.Sell
		}
		decorated, plain := f.Render(sampleFill(id, side))
		assert.Equal(t, plain, Strip(decorated), "trade %d", id)
		assert.Equal(t, plain, f.Plain(sampleFill(id, side)))
	}
}

func TestStripIdempotent(t *testing.T) {
	f := NewFormatter(DefaultTheme())
	plain := f.Plain(sampleFill(5, market.Sell))

	assert.Equal(t, plain, Strip(plain))
	assert.Equal(t, plain, Strip(Strip(plain)))
}

func TestRowParityMarkers(t *testing.T) {
	theme := DefaultTheme()
	f := NewFormatter(theme)

	for id := int64(1); id <= 8; id++ {
		decorated, _ := f.Render(sampleFill(id, market.Buy))
		if id%2 == 1 {
			assert.True(t, strings.HasPrefix(decorated, theme.RowOdd), "trade %d", id)
		} else {
			assert.True(t, strings.HasPrefix(decorated, theme.RowEven), "trade %d", id)
		}
		assert.True(t, strings.HasSuffix(decorated, ansiReset))
	}
}

func TestSideMarkersOverrideRow(t *testing.T) {
	theme := DefaultTheme()
	f := NewFormatter(theme)

	decorated, _ := f.Render(sampleFill(1, market.Buy))
	assert.Contains(t, decorated, ansiReset+theme.Buy+"BUY"+ansiReset+theme.RowOdd)

	decorated, _ = f.Render(sampleFill(2, market.Sell))
	assert.Contains(t, decorated, ansiReset+theme.Sell+"SELL"+ansiReset+theme.RowEven)
}

func TestNoThemeRendersPlain(t *testing.T) {
	f := NewFormatter(NoTheme())

	decorated, plain := f.Render(sampleFill(4, market.Sell))
	assert.Equal(t, plain, decorated)
}

func TestCustomThemeStripsClean(t *testing.T) {
	// Any ANSI tokens the theme maps to must strip back to the same plain line.
	theme := Theme{
		RowOdd:  "\033[38;5;27m",
		RowEven: "\033[38;5;220m",
		Buy:     "\033[1;32m",
		Sell:    "\033[1;31m",
	}
	f := NewFormatter(theme)

	for id := int64(1); id <= 4; id++ {
		decorated, plain := f.Render(sampleFill(id, market.Sell))
		assert.Equal(t, plain, Strip(decorated))
	}
}

func TestWideTradeIDNotTruncated(t *testing.T) {
	f := NewFormatter(DefaultTheme())

	fill := sampleFill(123456, market.Buy)
	plain := f.Plain(fill)
	require.True(t, strings.HasPrefix(plain, "#123456 | "), plain)
}
