package normalize

import (
	"encoding/json"
	"strings"

	"lighter-lens/internal/domain"
)

// rawPosition carries every observed spelling of the position payload.
type rawPosition struct {
	MarketID  flexInt `json:"market_id"`
	MarketID2 flexInt `json:"marketId"`
	Symbol    string  `json:"symbol"`
	Market    string  `json:"market"`

	Position  flexFloat `json:"position"`
	Size      flexFloat `json:"size"`

	EntryPrice  flexFloat `json:"avg_entry_price"`
	EntryPrice2 flexFloat `json:"entryPrice"`
	MarkPrice   flexFloat `json:"mark_price"`
	MarkPrice2  flexFloat `json:"markPrice"`
	LiqPrice    flexFloat `json:"liquidation_price"`
	LiqPrice2   flexFloat `json:"liquidationPrice"`

	UnrealizedPnL  flexFloat `json:"unrealized_pnl"`
	UnrealizedPnL2 flexFloat `json:"unrealizedPnl"`
	RealizedPnL    flexFloat `json:"realized_pnl"`
	RealizedPnL2   flexFloat `json:"realizedPnl"`

	Margin    flexFloat `json:"allocated_margin"`
	Margin2   flexFloat `json:"margin"`
	UpdatedAt flexInt   `json:"updated_at"`
	Timestamp flexInt   `json:"timestamp"`
}

// Positions normalizes a positions payload, array or object keyed by
// market id, into a slice. Entries with no market identifier are dropped.
func Positions(raw json.RawMessage) []*domain.Position {
	var out []*domain.Position
	for _, item := range items(raw) {
		var rp rawPosition
		if err := json.Unmarshal(item, &rp); err != nil {
			continue
		}
		p := &domain.Position{
			MarketID:         coalesceInt(rp.MarketID, rp.MarketID2),
			Symbol:           strings.ToUpper(coalesceStr(rp.Symbol, rp.Market)),
			Size:             coalesce(rp.Position, rp.Size),
			EntryPrice:       coalesce(rp.EntryPrice, rp.EntryPrice2),
			MarkPrice:        coalesce(rp.MarkPrice, rp.MarkPrice2),
			LiquidationPrice: coalesce(rp.LiqPrice, rp.LiqPrice2),
			UnrealizedPnL:    coalesce(rp.UnrealizedPnL, rp.UnrealizedPnL2),
			RealizedPnL:      coalesce(rp.RealizedPnL, rp.RealizedPnL2),
			Margin:           coalesce(rp.Margin, rp.Margin2),
			UpdatedAt:        coalesceInt(rp.UpdatedAt, rp.Timestamp),
		}
		if p.MarketID == 0 && p.Symbol == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MergePositions applies incoming position updates to the existing set,
// keyed by market id. Last writer wins per market; an incoming position
// with zero size removes the market entirely (closed). Positions absent
// from incoming are retained unchanged. Neither input is mutated.
func MergePositions(existing, incoming []*domain.Position) []*domain.Position {
	byMarket := make(map[int64]*domain.Position, len(existing))
	order := make([]int64, 0, len(existing)+len(incoming))
	for _, p := range existing {
		if _, seen := byMarket[p.MarketID]; !seen {
			order = append(order, p.MarketID)
		}
		byMarket[p.MarketID] = p
	}

	for _, p := range incoming {
		if p.Closed() {
			delete(byMarket, p.MarketID)
			continue
		}
		if _, seen := byMarket[p.MarketID]; !seen {
			order = append(order, p.MarketID)
		}
		byMarket[p.MarketID] = p
	}

	out := make([]*domain.Position, 0, len(byMarket))
	for _, id := range order {
		if p, ok := byMarket[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
