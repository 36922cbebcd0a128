// Package app wires the feeds, selector, paper simulator, and execution
// tape into one config-driven session and runs the heartbeat loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/papermm/config"
	"github.com/rustyeddy/papermm/internal/id"
	"github.com/rustyeddy/papermm/journal"
	"github.com/rustyeddy/papermm/selector"
	"github.com/rustyeddy/papermm/sim"
	"github.com/rustyeddy/papermm/tape"
	"github.com/rustyeddy/papermm/venue"
)

type App struct {
	cfg     *config.Config
	log     *logrus.Logger
	session string

	tape     *tape.Tape
	paper    *sim.PaperMM
	fileSink *tape.FileSink
	journal  journal.Journal
	multi    *venue.Multi

	ticks int64
}

// New builds a session from config: logger, theme, sinks, journal, tape,
// simulator, and (when enabled) the venue feeds.
func New(cfg *config.Config) (*App, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		session: id.NewSession(),
	}

	var sink tape.Sink
	if cfg.Sim.PrintFills {
		fileSink, err := tape.NewFileSink(cfg.Sim.FillLog)
		if err != nil {
			return nil, fmt.Errorf("fill log: %w", err)
		}
		a.fileSink = fileSink
		sink = tape.NewDualSink(tape.NewConsoleSink(os.Stdout), fileSink)
	}

	j, err := newJournal(cfg.Journal)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create journal: %w", err)
	}
	a.journal = j

	formatter := tape.NewFormatter(themeFrom(cfg.Theme))
	a.tape = tape.New(a.session, formatter, sink, j)
	a.paper = sim.New(cfg.Sim.QuoteHalfSpreadBps, cfg.Sim.QuoteSizeUSD, cfg.Sim.MaxInventoryUSD, a.tape)

	if cfg.Venue.Enabled {
		a.multi = venue.NewMulti(venue.Config{
			Host:      cfg.Venue.Host,
			Depth:     cfg.Venue.Depth,
			UserAgent: cfg.Venue.UserAgent,
		}, cfg.Venue.Markets, log)
	}

	return a, nil
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.FillsFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, nil
	}
}

// themeFrom overlays any configured tokens on the default theme.
func themeFrom(cfg config.ThemeConfig) tape.Theme {
	theme := tape.DefaultTheme()
	if cfg.RowOdd != "" {
		theme.RowOdd = cfg.RowOdd
	}
	if cfg.RowEven != "" {
		theme.RowEven = cfg.RowEven
	}
	if cfg.Buy != "" {
		theme.Buy = cfg.Buy
	}
	if cfg.Sell != "" {
		theme.Sell = cfg.Sell
	}
	return theme
}

func (a *App) SessionID() string { return a.session }

func (a *App) Tape() *tape.Tape { return a.tape }

// Run drives the heartbeat loop until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.log.WithFields(logrus.Fields{
		"session": a.session,
		"name":    a.cfg.App.Name,
	}).Info("starting session")

	if a.multi != nil {
		a.multi.Start(ctx)
	}
	defer a.close()

	tick := time.Duration(a.cfg.App.TickSeconds * float64(time.Second))
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutting down cleanly")
			return nil
		case <-ticker.C:
			a.heartbeat(tick)
		}
	}
}

// heartbeat is one pass: snapshot every market, pick the quotable ones,
// replay recent venue prints against our paper quotes, then mark to market.
func (a *App) heartbeat(tick time.Duration) {
	a.ticks++
	if a.multi == nil {
		return
	}
	nowMs := time.Now().UnixMilli()

	var snaps []selector.Snapshot
	for mkt, feed := range a.multi.Feeds() {
		snaps = append(snaps, snapshot(mkt, feed, nowMs))
	}

	picked := selector.Select(snaps, selector.Config{
		MinSpreadBps: a.cfg.Selector.MinSpreadBps,
		MinTPM:       a.cfg.Selector.MinTPM,
		TopN:         a.cfg.Selector.TopN,
	})
	a.logSelection(picked)

	mids := map[string]float64{}
	for _, p := range picked {
		feed := a.multi.Feeds()[p.Market]
		tob := feed.Book.TOB()
		mid, ok := tob.Mid()
		if !ok {
			continue
		}
		mids[p.Market] = mid

		q := a.paper.MakeQuote(mid)

		// a 2x tick window tolerates timing jitter between feed and loop
		for _, print := range feed.Trades.Tape().Recent(2*tick, nowMs) {
			if _, err := a.paper.OnTrade(p.Market, mid, print, q, a.ticks); err != nil {
				var swe *tape.SinkWriteError
				if errors.As(err, &swe) {
					// fill is recorded; only the mirror write failed
					a.log.WithError(err).Warn("fill sink write failed")
					continue
				}
				a.log.WithError(err).Error("record fill")
			}
		}
	}

	// mark every instrument we hold, not just the picked ones
	for _, instr := range a.tape.Instruments() {
		if _, ok := mids[instr]; ok {
			continue
		}
		if feed, ok := a.multi.Feeds()[instr]; ok {
			if mid, ok := feed.Book.TOB().Mid(); ok {
				mids[instr] = mid
			}
		}
	}
	equity := a.paper.MarkToMarket(mids)

	if a.journal != nil && a.ticks%int64(a.cfg.App.StatsLogEvery) == 0 {
		err := a.journal.RecordEquity(journal.EquitySnapshot{
			SessionID:   a.session,
			Time:        time.Now(),
			Cash:        a.tape.TotalCash(),
			Equity:      equity,
			RealizedPnL: a.tape.CumRealizedPnL(),
		})
		if err != nil {
			a.log.WithError(err).Warn("record equity")
		}
	}

	if a.ticks%int64(a.cfg.App.StatsLogEvery) == 0 {
		stats := a.paper.Stats()
		a.log.WithFields(logrus.Fields{
			"tick":     a.ticks,
			"trades":   stats.Trades,
			"volume":   stats.Volume.String(),
			"notional": stats.Notional.String(),
			"equity":   equity.StringFixed(2),
			"rpnl":     a.tape.CumRealizedPnL().StringFixed(2),
		}).Info("session stats")
	}
}

func snapshot(mkt string, feed *venue.Feed, nowMs int64) selector.Snapshot {
	tob := feed.Book.TOB()
	s := selector.Snapshot{
		Market: mkt,
		Bid:    tob.BidPx,
		Ask:    tob.AskPx,
		TPM:    feed.Trades.Tape().TradesPerMin(nowMs, time.Minute),
	}
	if bps, ok := tob.SpreadBps(); ok {
		s.SpreadBps = bps
		s.HasBook = true
	}
	if ratio, ok := feed.Trades.Tape().BuyRatio(nowMs, time.Minute); ok {
		s.BuyRatio = ratio
	}
	return s
}

func (a *App) logSelection(picked []selector.Snapshot) {
	if !a.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	names := make([]string, 0, len(picked))
	for _, p := range picked {
		names = append(names, fmt.Sprintf("%s(spr=%.2fbps,tpm=%.1f)", p.Market, p.SpreadBps, p.TPM))
	}
	sort.Strings(names)
	a.log.WithField("tick", a.ticks).Debugf("selected: %s", strings.Join(names, ", "))
}

func (a *App) close() {
	if a.multi != nil {
		a.multi.Stop()
		a.multi = nil
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.WithError(err).Warn("close journal")
		}
		a.journal = nil
	}
	if a.fileSink != nil {
		if err := a.fileSink.Close(); err != nil {
			a.log.WithError(err).Warn("close fill log")
		}
		a.fileSink = nil
	}
}
