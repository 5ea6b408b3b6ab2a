package normalize

import (
	"encoding/json"
	"strings"

	"lighter-lens/internal/domain"
)

// rawMarketStats carries both field spellings of the market stats payload.
type rawMarketStats struct {
	MarketID  flexInt `json:"market_id"`
	MarketID2 flexInt `json:"marketId"`
	Symbol    string  `json:"symbol"`
	Market    string  `json:"market"`

	LastPrice   flexFloat `json:"last_trade_price"`
	LastPrice2  flexFloat `json:"lastPrice"`
	IndexPrice  flexFloat `json:"index_price"`
	IndexPrice2 flexFloat `json:"indexPrice"`
	MarkPrice   flexFloat `json:"mark_price"`
	MarkPrice2  flexFloat `json:"markPrice"`

	Change24h   flexFloat `json:"daily_price_change"`
	Change24h2  flexFloat `json:"priceChange24h"`
	High24h     flexFloat `json:"daily_high"`
	High24h2    flexFloat `json:"high24h"`
	Low24h      flexFloat `json:"daily_low"`
	Low24h2     flexFloat `json:"low24h"`
	VolBase     flexFloat `json:"daily_base_token_volume"`
	VolBase2    flexFloat `json:"baseVolume24h"`
	VolQuote    flexFloat `json:"daily_quote_token_volume"`
	VolQuote2   flexFloat `json:"quoteVolume24h"`
	OpenInt     flexFloat `json:"open_interest"`
	OpenInt2    flexFloat `json:"openInterest"`
	Funding     flexFloat `json:"funding_rate"`
	Funding2    flexFloat `json:"fundingRate"`
	NextFunding flexInt   `json:"next_funding_time"`
	UpdatedAt   flexInt   `json:"updated_at"`
	Timestamp   flexInt   `json:"timestamp"`
}

// MarketStats coalesces one market-stats record across its snake_case and
// camelCase variants, coercing string-encoded numbers. Returns nil only
// when the payload carries no market identifier at all.
func MarketStats(raw json.RawMessage) *domain.MarketStats {
	var rm rawMarketStats
	if err := json.Unmarshal(raw, &rm); err != nil {
		return nil
	}

	id := coalesceInt(rm.MarketID, rm.MarketID2)
	symbol := strings.ToUpper(coalesceStr(rm.Symbol, rm.Market))
	if id == 0 && symbol == "" {
		return nil
	}

	return &domain.MarketStats{
		MarketID:       id,
		Symbol:         symbol,
		LastPrice:      coalesce(rm.LastPrice, rm.LastPrice2),
		IndexPrice:     coalesce(rm.IndexPrice, rm.IndexPrice2),
		MarkPrice:      coalesce(rm.MarkPrice, rm.MarkPrice2),
		Change24h:      coalesce(rm.Change24h, rm.Change24h2),
		High24h:        coalesce(rm.High24h, rm.High24h2),
		Low24h:         coalesce(rm.Low24h, rm.Low24h2),
		Volume24hBase:  coalesce(rm.VolBase, rm.VolBase2),
		Volume24hQuote: coalesce(rm.VolQuote, rm.VolQuote2),
		OpenInterest:   coalesce(rm.OpenInt, rm.OpenInt2),
		FundingRate:    coalesce(rm.Funding, rm.Funding2),
		NextFundingAt:  int64(rm.NextFunding),
		UpdatedAt:      coalesceInt(rm.UpdatedAt, rm.Timestamp),
	}
}
