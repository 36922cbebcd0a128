package tape

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papermm/journal"
	"github.com/rustyeddy/papermm/ledger"
	"github.com/rustyeddy/papermm/market"
)

// ErrFormatterInvariant means the stripped decorated line differed from the
// independently rendered plain line. This is a programming error in the
// formatter or theme, not bad input.
var ErrFormatterInvariant = errors.New("tape: stripped transcript differs from plain line")

// Tape is the append-only execution record for one session. It owns the
// trade-id counter — ids are 1..N with no gaps and no reuse for the life of
// the instance, and independent sessions never collide.
type Tape struct {
	mu      sync.Mutex
	session string
	ledger  *ledger.Ledger
	pnl     ledger.Accumulator
	format  *Formatter
	sink    Sink
	journal journal.Journal
	nextID  int64
	fills   []Fill
}

// New creates a tape for one session. sink and j may be nil; the in-memory
// tape is the source of truth and both are best-effort mirrors.
func New(session string, f *Formatter, sink Sink, j journal.Journal) *Tape {
	if f == nil {
		f = NewFormatter(NoTheme())
	}
	return &Tape{
		session: session,
		ledger:  ledger.New(),
		format:  f,
		sink:    sink,
		journal: j,
		nextID:  1,
	}
}

// RecordFill books one simulated fill: it validates, applies the position
// ledger, settles realized PnL, assigns the next trade id, appends the
// immutable Fill, and mirrors it to the sinks and journal.
//
// Validation failures abort before any state changes — no trade id is
// consumed. Sink and journal failures are returned wrapped in
// SinkWriteError but the Fill is already recorded; callers can test with
// errors.As and decide whether to halt the session.
func (t *Tape) RecordFill(instrument string, side market.Side, quantity, price decimal.Decimal, tickSeq int64) (Fill, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	app, err := t.ledger.Apply(instrument, side, quantity, price)
	if err != nil {
		return Fill{}, err
	}
	cum := t.pnl.Settle(app.RealizedPnL)

	fill := Fill{
		TradeID:        t.nextID,
		Time:           time.Now(),
		TickSeq:        tickSeq,
		Instrument:     instrument,
		Side:           side,
		Quantity:       quantity,
		Price:          price,
		Notional:       quantity.Mul(price),
		AvgCostAfter:   app.AvgCostAfter,
		PositionAfter:  app.PositionAfter,
		RealizedPnL:    app.RealizedPnL,
		CumRealizedPnL: cum,
	}
	t.nextID++
	t.fills = append(t.fills, fill)

	decorated, plain := t.format.Render(fill)
	if Strip(decorated) != plain {
		return fill, fmt.Errorf("%w (trade %d)", ErrFormatterInvariant, fill.TradeID)
	}

	var errs []error
	if t.sink != nil {
		if err := t.sink.WriteFill(decorated, plain); err != nil {
			errs = append(errs, err)
		}
	}
	if t.journal != nil {
		if err := t.journal.RecordFill(t.fillRecord(fill)); err != nil {
			errs = append(errs, &SinkWriteError{Sink: "journal", Err: err})
		}
	}
	return fill, errors.Join(errs...)
}

func (t *Tape) fillRecord(f Fill) journal.FillRecord {
	return journal.FillRecord{
		SessionID:      t.session,
		TradeID:        f.TradeID,
		Time:           f.Time,
		TickSeq:        f.TickSeq,
		Instrument:     f.Instrument,
		Side:           f.Side.String(),
		Quantity:       f.Quantity,
		Price:          f.Price,
		Notional:       f.Notional,
		AvgCost:        f.AvgCostAfter,
		Position:       f.PositionAfter,
		RealizedPnL:    f.RealizedPnL,
		CumRealizedPnL: f.CumRealizedPnL,
	}
}

// Fills returns a snapshot copy of the tape, oldest first.
func (t *Tape) Fills() []Fill {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Fill, len(t.fills))
	copy(out, t.fills)
	return out
}

func (t *Tape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.fills)
}

func (t *Tape) SessionID() string { return t.session }

// Position returns a copy of the current ledger state for one instrument.
func (t *Tape) Position(instrument string) (ledger.Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Position(instrument)
}

// Instruments lists every instrument with at least one recorded fill.
func (t *Tape) Instruments() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Instruments()
}

// TotalCash is the signed cash delta across all instruments.
func (t *Tape) TotalCash() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.TotalCash()
}

// CumRealizedPnL is the running realized total across the session.
func (t *Tape) CumRealizedPnL() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pnl.Total()
}
