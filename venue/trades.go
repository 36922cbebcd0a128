package venue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/papermm/market"
)

// TradeStream appends the venue's public prints for one market to a
// TradeTape.
type TradeStream struct {
	client *streamClient
	tape   *market.TradeTape
}

func NewTradeStream(cfg Config, mkt string, log *logrus.Logger) *TradeStream {
	url := fmt.Sprintf("%s/stream.extended.exchange/v1/publicTrades/%s", cfg.Host, mkt)

	t := &TradeStream{tape: market.NewTradeTape(0)}
	t.client = newStreamClient("trades/"+mkt, url, cfg.UserAgent, t.handleMessage, log)
	return t
}

func (t *TradeStream) Start(ctx context.Context) { t.client.Start(ctx) }
func (t *TradeStream) Stop()                     { t.client.Stop() }

func (t *TradeStream) Tape() *market.TradeTape { return t.tape }

type tradeMsg struct {
	Data []struct {
		T int64       `json:"T"`
		P json.Number `json:"p"`
		Q json.Number `json:"q"`
		S string      `json:"S"`
	} `json:"data"`
}

func (t *TradeStream) handleMessage(raw []byte) {
	var msg tradeMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	for _, tr := range msg.Data {
		if tr.T == 0 || tr.P == "" || tr.Q == "" || tr.S == "" {
			continue
		}
		side, err := market.ParseSide(tr.S)
		if err != nil {
			continue
		}
		price, err := tr.P.Float64()
		if err != nil {
			continue
		}
		qty, err := tr.Q.Float64()
		if err != nil {
			continue
		}
		t.tape.Add(market.Print{TsMs: tr.T, Price: price, Qty: qty, Side: side})
	}
}
