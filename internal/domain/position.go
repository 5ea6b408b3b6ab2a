package domain

// Position is one open position on the exchange, normalized from the
// account snapshot and WebSocket position updates. Sign of Size encodes
// direction: positive = long, negative = short.
type Position struct {
	MarketID         int64   // exchange market id
	Symbol           string  // uppercase symbol
	Size             float64 // signed base quantity; zero means closed
	EntryPrice       float64
	MarkPrice        float64
	LiquidationPrice float64
	UnrealizedPnL    float64
	RealizedPnL      float64
	Margin           float64
	UpdatedAt        int64 // unix milliseconds of last update
}

// Long reports whether the position is long.
func (p *Position) Long() bool {
	return p.Size > 0
}

// Closed reports whether the position has zero size. Closed positions are
// removed from tracked state rather than kept as tombstones.
func (p *Position) Closed() bool {
	return p.Size == 0
}
