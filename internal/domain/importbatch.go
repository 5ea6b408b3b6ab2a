package domain

// ImportBatch records one persisted CSV import.
type ImportBatch struct {
	ID         string // uuid
	Profile    string // detected or "manual"
	FileName   string
	TradeCount int
	Dropped    int
	CreatedAt  int64 // unix milliseconds
}

// MarketAggregate is a per-market rollup computed over the trade archive.
type MarketAggregate struct {
	Market    string
	Trades    int64
	NetPnL    float64
	TotalFees float64
	Volume    float64 // sum of size*price
}
