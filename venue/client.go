// Package venue streams public market data (top-of-book and trades) over
// websockets and keeps per-market state the rest of the system reads.
package venue

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Config covers both public streams for one venue host.
type Config struct {
	Host      string // e.g. wss://api.starknet.extended.exchange
	Depth     int
	UserAgent string
}

const (
	maxBackoff     = 20 * time.Second
	initialBackoff = time.Second
	dialTimeout    = 10 * time.Second
)

// streamClient owns one websocket connection: dial, read loop, reconnect
// with exponential backoff. Payload handling is injected per stream type.
type streamClient struct {
	name      string
	url       string
	userAgent string
	handle    func(raw []byte)
	log       *logrus.Entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newStreamClient(name, url, userAgent string, handle func([]byte), log *logrus.Logger) *streamClient {
	return &streamClient{
		name:      name,
		url:       url,
		userAgent: userAgent,
		handle:    handle,
		log:       log.WithField("stream", name),
	}
}

func (c *streamClient) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.run(ctx)
}

// Stop cancels the stream and waits for the read loop to exit.
func (c *streamClient) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *streamClient) run(ctx context.Context) {
	defer c.wg.Done()

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()
		err := c.connectAndStream(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > maxBackoff {
			// the connection was healthy for a while; start over
			backoff = initialBackoff
		}
		c.log.WithError(err).Warnf("stream dropped, reconnecting in %s", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (c *streamClient) connectAndStream(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	header := http.Header{}
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}

	c.log.Infof("connecting %s", c.url)
	conn, _, err := dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	// unblock ReadMessage when the context is cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handle(raw)
	}
}
