package sim

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papermm/market"
	"github.com/rustyeddy/papermm/tape"
)

// Stats are running session counters across all markets.
type Stats struct {
	Trades     int64
	Volume     decimal.Decimal
	Notional   decimal.Decimal
	BuyVolume  decimal.Decimal
	SellVolume decimal.Decimal
}

func (s *Stats) add(f tape.Fill) {
	s.Trades++
	s.Volume = s.Volume.Add(f.Quantity)
	s.Notional = s.Notional.Add(f.Notional)
	if f.Side == market.Buy {
		s.BuyVolume = s.BuyVolume.Add(f.Quantity)
	} else {
		s.SellVolume = s.SellVolume.Add(f.Quantity)
	}
}
