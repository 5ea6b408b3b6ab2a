package domain

// MarketStats is the normalized per-market statistics record. The exchange
// emits these under several field spellings; internal/normalize coalesces
// them into this one shape before anything downstream sees them.
type MarketStats struct {
	MarketID       int64
	Symbol         string
	LastPrice      float64
	IndexPrice     float64
	MarkPrice      float64
	Change24h      float64 // percent
	High24h        float64
	Low24h         float64
	Volume24hBase  float64
	Volume24hQuote float64
	OpenInterest   float64
	FundingRate    float64
	NextFundingAt  int64 // unix milliseconds, 0 when unknown
	UpdatedAt      int64 // unix milliseconds of last update
}

// UserStats is the normalized account-level summary from the snapshot.
type UserStats struct {
	AccountValue    float64
	TotalMargin     float64
	AvailableMargin float64
	UnrealizedPnL   float64
	RealizedPnL     float64
	Leverage        float64
}

// PnLPoint is one point of the live PnL history series kept by the tracker.
type PnLPoint struct {
	Timestamp int64 // unix milliseconds
	Value     float64
}
