package market

// TopOfBook is the best bid/ask for one market, as delivered by a depth=1
// book stream. A zero price on either side means that side is empty.
type TopOfBook struct {
	Instrument string
	BidPx      float64
	BidQty     float64
	AskPx      float64
	AskQty     float64
	TsMs       int64
	Seq        int64
}

// Mid returns the midpoint price. ok is false until both sides are populated.
func (t TopOfBook) Mid() (mid float64, ok bool) {
	if t.BidPx <= 0 || t.AskPx <= 0 {
		return 0, false
	}
	return 0.5 * (t.BidPx + t.AskPx), true
}

// SpreadBps returns the bid/ask spread in basis points of the mid.
func (t TopOfBook) SpreadBps() (bps float64, ok bool) {
	mid, ok := t.Mid()
	if !ok {
		return 0, false
	}
	return (t.AskPx - t.BidPx) / mid * 10_000, true
}
