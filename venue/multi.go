package venue

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Feed bundles both public streams for one market.
type Feed struct {
	Book   *BookStream
	Trades *TradeStream
}

// Multi supervises the feeds for a set of markets.
type Multi struct {
	feeds map[string]*Feed
}

func NewMulti(cfg Config, markets []string, log *logrus.Logger) *Multi {
	feeds := make(map[string]*Feed, len(markets))
	for _, m := range markets {
		feeds[m] = &Feed{
			Book:   NewBookStream(cfg, m, log),
			Trades: NewTradeStream(cfg, m, log),
		}
	}
	return &Multi{feeds: feeds}
}

func (m *Multi) Feeds() map[string]*Feed { return m.feeds }

func (m *Multi) Start(ctx context.Context) {
	for _, f := range m.feeds {
		f.Book.Start(ctx)
		f.Trades.Start(ctx)
	}
}

// Stop halts trades first, then books, and waits for every read loop.
func (m *Multi) Stop() {
	for _, f := range m.feeds {
		f.Trades.Stop()
	}
	for _, f := range m.feeds {
		f.Book.Stop()
	}
}
