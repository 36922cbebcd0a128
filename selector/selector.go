// Package selector picks which markets are worth quoting this tick, scoring
// spread width against tape activity.
package selector

import (
	"math"
	"sort"
)

// Snapshot is one market's state at selection time. HasBook is false until
// both sides of the book have been seen; such markets are never selected.
type Snapshot struct {
	Market    string
	Bid       float64
	Ask       float64
	SpreadBps float64
	HasBook   bool
	TPM       float64 // trades per minute
	BuyRatio  float64
}

type Config struct {
	MinSpreadBps float64
	MinTPM       float64
	TopN         int
}

// Score prefers wide spreads on active tapes: spread x (1 + sqrt(tpm)).
func Score(s Snapshot) float64 {
	if !s.HasBook {
		return -1
	}
	return s.SpreadBps * (1 + math.Sqrt(s.TPM))
}

// Select filters by the configured floors and returns the top N by score,
// best first.
func Select(snaps []Snapshot, cfg Config) []Snapshot {
	ok := make([]Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if !s.HasBook {
			continue
		}
		if s.SpreadBps < cfg.MinSpreadBps {
			continue
		}
		if s.TPM < cfg.MinTPM {
			continue
		}
		ok = append(ok, s)
	}

	sort.SliceStable(ok, func(i, j int) bool {
		return Score(ok[i]) > Score(ok[j])
	})

	if cfg.TopN > 0 && len(ok) > cfg.TopN {
		ok = ok[:cfg.TopN]
	}
	return ok
}
