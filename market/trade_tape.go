package market

import (
	"sync"
	"time"
)

// Print is one trade observed on the venue's public trades stream.
type Print struct {
	TsMs  int64
	Price float64
	Qty   float64
	Side  Side
}

// TradeTape keeps a bounded window of recent venue prints for one market.
// It is written by the feed goroutine and read by the heartbeat loop, so
// every method takes the lock.
type TradeTape struct {
	mu     sync.Mutex
	prints []Print
	max    int
	lastTs int64
}

const DefaultTapeDepth = 5000

func NewTradeTape(max int) *TradeTape {
	if max <= 0 {
		max = DefaultTapeDepth
	}
	return &TradeTape{max: max}
}

func (t *TradeTape) Add(p Print) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prints = append(t.prints, p)
	if len(t.prints) > t.max {
		t.prints = t.prints[len(t.prints)-t.max:]
	}
	t.lastTs = p.TsMs
}

// LastTs returns the timestamp of the most recent print, zero if none.
func (t *TradeTape) LastTs() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTs
}

// TradesPerMin counts prints inside the lookback window ending at nowMs.
func (t *TradeTape) TradesPerMin(nowMs int64, lookback time.Duration) float64 {
	cutoff := nowMs - lookback.Milliseconds()

	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for i := len(t.prints) - 1; i >= 0; i-- {
		if t.prints[i].TsMs < cutoff {
			break
		}
		count++
	}
	return float64(count)
}

// BuyRatio returns the fraction of prints in the window that were aggressive
// buys. ok is false when the window holds no prints.
func (t *TradeTape) BuyRatio(nowMs int64, lookback time.Duration) (ratio float64, ok bool) {
	cutoff := nowMs - lookback.Milliseconds()

	t.mu.Lock()
	defer t.mu.Unlock()

	buys, total := 0, 0
	for i := len(t.prints) - 1; i >= 0; i-- {
		if t.prints[i].TsMs < cutoff {
			break
		}
		total++
		if t.prints[i].Side == Buy {
			buys++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(buys) / float64(total), true
}

// Recent returns the prints within the window ending at nowMs, oldest first.
func (t *TradeTape) Recent(window time.Duration, nowMs int64) []Print {
	cutoff := nowMs - window.Milliseconds()

	t.mu.Lock()
	defer t.mu.Unlock()

	i := len(t.prints)
	for i > 0 && t.prints[i-1].TsMs >= cutoff {
		i--
	}

	out := make([]Print, len(t.prints)-i)
	copy(out, t.prints[i:])
	return out
}
