package market

import (
	"fmt"
	"strings"
)

// Side is the direction of a trade: Buy or Sell. It is a closed enumeration;
// there is no "unknown" member, so callers never need a default branch.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Sign returns +1 for Buy and -1 for Sell.
func (s Side) Sign() int {
	if s == Buy {
		return 1
	}
	return -1
}

// ParseSide accepts the usual venue spellings ("BUY", "buy", "B", "Sell", ...).
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B", "BID":
		return Buy, nil
	case "SELL", "S", "ASK":
		return Sell, nil
	}
	return Buy, fmt.Errorf("unknown side %q", s)
}
