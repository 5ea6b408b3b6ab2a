package normalize

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"lighter-lens/internal/domain"
)

// rawTrade carries the observed spellings of the trade payload.
type rawTrade struct {
	TradeID  flexInt `json:"trade_id"`
	TradeID2 flexInt `json:"tradeId"`
	ID       string  `json:"id"`

	Market  string  `json:"market"`
	Symbol  string  `json:"symbol"`
	IsLong  *bool   `json:"is_long"`
	Side    string  `json:"side"`
	IsMaker *bool   `json:"is_maker"`
	Type    string  `json:"type"`

	Size   flexFloat `json:"size"`
	Amount flexFloat `json:"amount"`
	Price  flexFloat `json:"price"`

	ClosedPnL  flexFloat `json:"closed_pnl"`
	ClosedPnL2 flexFloat `json:"closedPnl"`
	Fee        flexFloat `json:"fee"`

	Timestamp  flexInt `json:"timestamp"`
	ExecutedAt flexInt `json:"executed_at"`
}

// Trades normalizes a trades payload, array or keyed object, into a
// slice sorted descending by timestamp. Entries without any id are dropped:
// dedupe would be meaningless for them.
func Trades(raw json.RawMessage) []*domain.Trade {
	var out []*domain.Trade
	for _, item := range items(raw) {
		var rt rawTrade
		if err := json.Unmarshal(item, &rt); err != nil {
			continue
		}
		t := mapRawTrade(&rt)
		if t == nil {
			continue
		}
		out = append(out, t)
	}
	sortTradesDesc(out)
	return out
}

func mapRawTrade(rt *rawTrade) *domain.Trade {
	id := rt.ID
	if id == "" {
		if n := coalesceInt(rt.TradeID, rt.TradeID2); n != 0 {
			id = strconv.FormatInt(n, 10)
		}
	}
	if id == "" {
		return nil
	}

	ms := coalesceInt(rt.Timestamp, rt.ExecutedAt)
	t := &domain.Trade{
		ID:        id,
		Date:      time.UnixMilli(ms),
		Market:    strings.ToUpper(coalesceStr(rt.Market, rt.Symbol)),
		Size:      coalesce(rt.Size, rt.Amount),
		Price:     float64(rt.Price),
		ClosedPnL: coalesce(rt.ClosedPnL, rt.ClosedPnL2),
		Fee:       float64(rt.Fee),
	}

	switch {
	case rt.IsLong != nil && *rt.IsLong:
		t.Side = domain.SideLong
	case rt.IsLong != nil:
		t.Side = domain.SideShort
	default:
		t.Side = inferSide(rt.Side)
	}

	if rt.IsMaker != nil && *rt.IsMaker {
		t.Role = domain.RoleMaker
	} else {
		t.Role = domain.RoleTaker
	}

	if strings.Contains(strings.ToLower(rt.Type), "limit") {
		t.Type = domain.TypeLimit
	} else {
		t.Type = domain.TypeMarket
	}

	return t
}

func inferSide(s string) string {
	s = strings.ToLower(s)
	if strings.Contains(s, "long") || strings.Contains(s, "buy") {
		return domain.SideLong
	}
	return domain.SideShort
}

// DedupeAndPrepend merges a batch of incoming trades into the existing
// list: incoming trades whose id is already present are dropped, survivors
// are prepended, and the result is re-sorted descending by timestamp.
// Neither input is mutated.
func DedupeAndPrepend(existing, incoming []*domain.Trade) []*domain.Trade {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}

	out := make([]*domain.Trade, 0, len(existing)+len(incoming))
	for _, t := range incoming {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	out = append(out, existing...)
	sortTradesDesc(out)
	return out
}

// sortTradesDesc orders newest-first, id descending on equal timestamps so
// the ordering is deterministic.
func sortTradesDesc(trades []*domain.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].Date.Equal(trades[j].Date) {
			return trades[i].Date.After(trades[j].Date)
		}
		return trades[i].ID > trades[j].ID
	})
}
