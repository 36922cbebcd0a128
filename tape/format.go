package tape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papermm/market"
)

const ansiReset = "\033[0m"

// Theme maps semantic presentation classes to concrete ANSI tokens. The
// accounting code never sees the tokens; swapping a theme cannot change
// what the durable log contains.
type Theme struct {
	RowOdd  string
	RowEven string
	Buy     string
	Sell    string
}

// DefaultTheme alternates blue/yellow rows with green BUY and red SELL.
func DefaultTheme() Theme {
	return Theme{
		RowOdd:  "\033[94m",
		RowEven: "\033[93m",
		Buy:     "\033[92m",
		Sell:    "\033[91m",
	}
}

// NoTheme renders decorated output identical to the plain line.
func NoTheme() Theme {
	return Theme{}
}

// Formatter renders a Fill into its two forms: the canonical plain line and
// the decorated transcript line.
type Formatter struct {
	theme Theme
}

func NewFormatter(theme Theme) *Formatter {
	return &Formatter{theme: theme}
}

// fields splits the line into the text before the side token, the side
// token itself, and the rest. Decoration only ever re-colors the middle
// piece, so both renderings are built from the same three parts.
func (f *Formatter) fields(fill Fill) (pre, side, post string) {
	pre = fmt.Sprintf("#%05d | %s | tick=%d | %s | ",
		fill.TradeID,
		fill.Time.Format("15:04:05.000"),
		fill.TickSeq,
		fill.Instrument,
	)
	side = fill.Side.String()
	post = fmt.Sprintf(" | %s @%s | $%s | avg=%s | pos=%s | rPnL=%s | rPnLtot=%s",
		fill.Quantity.StringFixed(4),
		fill.Price.StringFixed(2),
		fill.Notional.StringFixed(2),
		fill.AvgCostAfter.StringFixed(2),
		signedFixed(fill.PositionAfter, 4),
		signedFixed(fill.RealizedPnL, 2),
		signedFixed(fill.CumRealizedPnL, 2),
	)
	return pre, side, post
}

// Plain renders the canonical field-delimited line. Field order, the " | "
// delimiter, and decimal precisions are the durable file-format contract.
func (f *Formatter) Plain(fill Fill) string {
	pre, side, post := f.fields(fill)
	return pre + side + post
}

// Render returns the decorated and plain forms of one fill. The row marker
// follows trade-id parity (odd rows class A, even rows class B); the side
// token gets its own marker, closed and reopened around the substring so
// markers never bleed into later output.
func (f *Formatter) Render(fill Fill) (decorated, plain string) {
	pre, side, post := f.fields(fill)
	plain = pre + side + post

	row := f.theme.RowEven
	if fill.TradeID%2 == 1 {
		row = f.theme.RowOdd
	}
	dir := f.theme.Sell
	if fill.Side == market.Buy {
		dir = f.theme.Buy
	}

	if row == "" && dir == "" {
		return plain, plain
	}

	var b strings.Builder
	b.WriteString(row)
	b.WriteString(pre)
	b.WriteString(ansiReset)
	b.WriteString(dir)
	b.WriteString(side)
	b.WriteString(ansiReset)
	b.WriteString(row)
	b.WriteString(post)
	b.WriteString(ansiReset)
	return b.String(), plain
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes every ANSI escape from s. Stripping a decorated line yields
// the canonical plain line; already-plain input passes through unchanged.
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// signedFixed renders d with an explicit leading sign, matching %+.Nf.
func signedFixed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}
