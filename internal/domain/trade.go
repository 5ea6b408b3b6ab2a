package domain

import "time"

// Trade is the canonical, exchange-agnostic representation of one executed
// trade. Every importer profile and every live adapter produces this shape;
// the analytics engine consumes nothing else.
type Trade struct {
	ID        string    // exchange trade id, or deterministic hash for CSV imports
	Date      time.Time // execution timestamp
	Market    string    // uppercase symbol, e.g. "BTC-USD"
	Side      string    // "long" | "short"
	Size      float64   // quantity, non-negative
	Price     float64   // execution price
	ClosedPnL float64   // signed realized PnL
	Fee       float64   // non-negative (sign normalized at mapping time)
	Role      string    // "maker" | "taker"
	Type      string    // "limit" | "market"
}

// Side constants
const (
	SideLong  = "long"
	SideShort = "short"
)

// Role constants
const (
	RoleMaker = "maker"
	RoleTaker = "taker"
)

// Order type constants
const (
	TypeLimit  = "limit"
	TypeMarket = "market"
)

// Valid reports whether the trade carries the fields the analytics engine
// requires: a real timestamp and a market. ClosedPnL presence is enforced at
// mapping time (rows without it are never admitted).
func (t *Trade) Valid() bool {
	return t != nil && !t.Date.IsZero() && t.Market != ""
}

// Win reports whether the trade closed with positive PnL. Zero-PnL trades
// are neither wins nor losses.
func (t *Trade) Win() bool {
	return t.ClosedPnL > 0
}

// Loss reports whether the trade closed with negative PnL.
func (t *Trade) Loss() bool {
	return t.ClosedPnL < 0
}
