package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papermm/market"
	"github.com/rustyeddy/papermm/tape"
)

func newPaper(t *testing.T, halfSpreadBps, quoteUSD, maxInvUSD float64) *PaperMM {
	t.Helper()
	tp := tape.New("SIM-TEST", tape.NewFormatter(tape.NoTheme()), nil, nil)
	return New(halfSpreadBps, quoteUSD, maxInvUSD, tp)
}

func TestMakeQuote(t *testing.T) {
	m := newPaper(t, 10, 1000, 50000)

	q := m.MakeQuote(50000)
	assert.InDelta(t, 49950, q.BidPx, 1e-9)
	assert.InDelta(t, 50050, q.AskPx, 1e-9)
	assert.InDelta(t, 0.02, q.QtyBase, 1e-12)
}

func TestOnTradeAggressorSellHitsBid(t *testing.T) {
	m := newPaper(t, 10, 1000, 50000)
	q := m.MakeQuote(50000)

	// aggressive sell at our bid or below -> we buy at our bid
	fill, err := m.OnTrade("BTC-USD", 50000, market.Print{Price: 49940, Qty: 0.01, Side: market.Sell}, q, 1)
	require.NoError(t, err)
	require.NotNil(t, fill)

	assert.Equal(t, market.Buy, fill.Side)
	assert.InDelta(t, 49950, fill.Price.InexactFloat64(), 1e-6)
	assert.InDelta(t, 0.01, fill.Quantity.InexactFloat64(), 1e-12)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Trades)
	assert.InDelta(t, 0.01, stats.BuyVolume.InexactFloat64(), 1e-12)
}

func TestOnTradeAggressorBuyLiftsAsk(t *testing.T) {
	m := newPaper(t, 10, 1000, 50000)
	q := m.MakeQuote(50000)

	fill, err := m.OnTrade("BTC-USD", 50000, market.Print{Price: 50060, Qty: 0.5, Side: market.Buy}, q, 2)
	require.NoError(t, err)
	require.NotNil(t, fill)

	assert.Equal(t, market.Sell, fill.Side)
	assert.InDelta(t, 50050, fill.Price.InexactFloat64(), 1e-6)
	// fill size capped at our quote size
	assert.InDelta(t, q.QtyBase, fill.Quantity.InexactFloat64(), 1e-12)
}

func TestOnTradeMisses(t *testing.T) {
	m := newPaper(t, 10, 1000, 50000)
	q := m.MakeQuote(50000)

	// aggressive buy below our ask: no fill
	fill, err := m.OnTrade("BTC-USD", 50000, market.Print{Price: 50000, Qty: 1, Side: market.Buy}, q, 1)
	require.NoError(t, err)
	assert.Nil(t, fill)

	// aggressive sell above our bid: no fill
	fill, err = m.OnTrade("BTC-USD", 50000, market.Print{Price: 49960, Qty: 1, Side: market.Sell}, q, 2)
	require.NoError(t, err)
	assert.Nil(t, fill)

	assert.Equal(t, 0, m.Tape().Len())
}

func TestOnTradeInventoryCap(t *testing.T) {
	// cap of 400 USD, each buy adds ~1000 USD of inventory
	m := newPaper(t, 10, 1000, 400)
	q := m.MakeQuote(50000)

	fill, err := m.OnTrade("BTC-USD", 50000, market.Print{Price: 49900, Qty: 1, Side: market.Sell}, q, 1)
	require.NoError(t, err)
	require.NotNil(t, fill)

	// inventory is now ~1000 USD > cap: further buys rejected
	fill, err = m.OnTrade("BTC-USD", 50000, market.Print{Price: 49900, Qty: 1, Side: market.Sell}, q, 2)
	require.NoError(t, err)
	assert.Nil(t, fill)

	// but sells are still allowed
	fill, err = m.OnTrade("BTC-USD", 50000, market.Print{Price: 50100, Qty: 1, Side: market.Buy}, q, 3)
	require.NoError(t, err)
	assert.NotNil(t, fill)
}

func TestMarkToMarket(t *testing.T) {
	m := newPaper(t, 10, 1000, 1_000_000)
	q := Quote{BidPx: 50000, AskPx: 50100, QtyBase: 0.01}

	// buy 0.01 @50000: cash -500
	fill, err := m.OnTrade("BTC-USD", 50050, market.Print{Price: 49000, Qty: 0.01, Side: market.Sell}, q, 1)
	require.NoError(t, err)
	require.NotNil(t, fill)

	// marked at 51000: equity = -500 + 0.01*51000 = 10
	equity := m.MarkToMarket(map[string]float64{"BTC-USD": 51000})
	assert.InDelta(t, 10, equity.InexactFloat64(), 1e-9)

	// no mid for the market: cash only
	equity = m.MarkToMarket(map[string]float64{})
	assert.InDelta(t, -500, equity.InexactFloat64(), 1e-9)
}
