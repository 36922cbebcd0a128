// Package sim drives paper fills from live market data: it quotes both
// sides around the mid and crosses the resting quote against each print on
// the venue's trade stream. No order ever leaves the process.
package sim

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papermm/market"
	"github.com/rustyeddy/papermm/tape"
)

// Quote is a two-sided paper quote around the mid.
type Quote struct {
	BidPx   float64
	AskPx   float64
	QtyBase float64 // size on each side, in base units
}

type PaperMM struct {
	halfSpreadBps   float64
	quoteSizeUSD    float64
	maxInventoryUSD float64
	tape            *tape.Tape
	stats           Stats
}

func New(halfSpreadBps, quoteSizeUSD, maxInventoryUSD float64, t *tape.Tape) *PaperMM {
	return &PaperMM{
		halfSpreadBps:   halfSpreadBps,
		quoteSizeUSD:    quoteSizeUSD,
		maxInventoryUSD: maxInventoryUSD,
		tape:            t,
	}
}

// MakeQuote places half the configured spread on each side of the mid and
// sizes both sides to the configured USD amount.
func (m *PaperMM) MakeQuote(mid float64) Quote {
	half := m.halfSpreadBps / 10_000
	return Quote{
		BidPx:   mid * (1 - half),
		AskPx:   mid * (1 + half),
		QtyBase: m.quoteSizeUSD / mid,
	}
}

func (m *PaperMM) inventoryUSD(instrument string, mid float64) float64 {
	pos, ok := m.tape.Position(instrument)
	if !ok {
		return 0
	}
	return pos.NetQuantity.InexactFloat64() * mid
}

// OnTrade applies one venue print against our quote.
//
// Fill rule: an aggressive BUY at or through our ask lifts us (we sell);
// an aggressive SELL at or through our bid hits us (we buy). Fill size is
// the smaller of our quote size and the print size, and inventory is capped
// at maxInventoryUSD on either side. Returns nil when the print misses.
func (m *PaperMM) OnTrade(instrument string, mid float64, print market.Print, q Quote, tickSeq int64) (*tape.Fill, error) {
	inv := m.inventoryUSD(instrument, mid)

	var ourSide market.Side
	var px float64
	if print.Side == market.Buy {
		if q.AskPx > print.Price || inv <= -m.maxInventoryUSD {
			return nil, nil
		}
		ourSide, px = market.Sell, q.AskPx
	} else {
		if q.BidPx < print.Price || inv >= m.maxInventoryUSD {
			return nil, nil
		}
		ourSide, px = market.Buy, q.BidPx
	}

	qty := math.Min(q.QtyBase, print.Qty)
	if qty <= 0 {
		return nil, nil
	}

	fill, err := m.tape.RecordFill(instrument, ourSide,
		decimal.NewFromFloat(qty), decimal.NewFromFloat(px), tickSeq)
	if err != nil && fill.TradeID == 0 {
		// rejected before any state changed
		return nil, err
	}

	// recorded; err, if any, is a sink mirror failure the caller may log
	m.stats.add(fill)
	return &fill, err
}

// MarkToMarket values every open position at its market's mid and returns
// session equity: cash plus marked inventory. Markets with no mid available
// contribute cash only.
func (m *PaperMM) MarkToMarket(mids map[string]float64) decimal.Decimal {
	equity := m.tape.TotalCash()
	for _, instr := range m.tape.Instruments() {
		pos, ok := m.tape.Position(instr)
		if !ok || pos.Flat() {
			continue
		}
		mid, ok := mids[instr]
		if !ok {
			continue
		}
		equity = equity.Add(pos.NetQuantity.Mul(decimal.NewFromFloat(mid)))
	}
	return equity
}

// Tape exposes the execution record backing this simulator.
func (m *PaperMM) Tape() *tape.Tape { return m.tape }

// Stats returns a copy of the session counters.
func (m *PaperMM) Stats() Stats { return m.stats }
