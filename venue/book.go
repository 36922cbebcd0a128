package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/papermm/market"
)

// BookStream maintains the best bid/ask for one market from the venue's
// depth=1 order book stream.
type BookStream struct {
	client *streamClient
	market string

	mu  sync.RWMutex
	tob market.TopOfBook
}

func NewBookStream(cfg Config, mkt string, log *logrus.Logger) *BookStream {
	depth := cfg.Depth
	if depth <= 0 {
		depth = 1
	}
	url := fmt.Sprintf("%s/stream.extended.exchange/v1/orderbooks/%s?depth=%d", cfg.Host, mkt, depth)

	b := &BookStream{market: mkt, tob: market.TopOfBook{Instrument: mkt}}
	b.client = newStreamClient("book/"+mkt, url, cfg.UserAgent, b.handleMessage, log)
	return b
}

func (b *BookStream) Start(ctx context.Context) { b.client.Start(ctx) }
func (b *BookStream) Stop()                     { b.client.Stop() }

// TOB returns a copy of the current top of book.
func (b *BookStream) TOB() market.TopOfBook {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tob
}

type bookLevel struct {
	P json.Number `json:"p"`
	Q json.Number `json:"q"`
}

type bookMsg struct {
	Ts   int64  `json:"ts"`
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	Data struct {
		M string      `json:"m"`
		B []bookLevel `json:"b"`
		A []bookLevel `json:"a"`
	} `json:"data"`
}

// handleMessage applies one SNAPSHOT/DELTA frame. At depth=1 every frame
// carries the full best bid/ask; an empty side clears that side.
func (b *BookStream) handleMessage(raw []byte) {
	var msg bookMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Data.M != "" && msg.Data.M != b.market {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(msg.Data.B) > 0 {
		b.tob.BidPx, _ = msg.Data.B[0].P.Float64()
		b.tob.BidQty, _ = msg.Data.B[0].Q.Float64()
	} else {
		b.tob.BidPx, b.tob.BidQty = 0, 0
	}
	if len(msg.Data.A) > 0 {
		b.tob.AskPx, _ = msg.Data.A[0].P.Float64()
		b.tob.AskQty, _ = msg.Data.A[0].Q.Float64()
	} else {
		b.tob.AskPx, b.tob.AskQty = 0, 0
	}
	b.tob.TsMs = msg.Ts
	b.tob.Seq = msg.Seq
}
