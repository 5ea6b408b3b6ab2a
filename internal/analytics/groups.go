package analytics

import (
	"sort"

	"lighter-lens/internal/domain"
)

// SideStats is the per-direction breakdown. Both buckets are always present;
// an empty bucket carries zeroed metrics rather than being omitted.
type SideStats struct {
	Side         string
	Trades       int
	Wins         int
	Losses       int
	NetPnL       float64
	TotalFees    float64
	WinRate      float64
	ProfitFactor float64
}

// RoleStats is the maker/taker breakdown. Profit factor is not part of the
// reported shape for roles; PnL and win rate are computed identically.
type RoleStats struct {
	Role      string
	Trades    int
	Wins      int
	NetPnL    float64
	TotalFees float64
	WinRate   float64
}

// TypeStats is the limit/market breakdown, same shape policy as RoleStats.
type TypeStats struct {
	Type      string
	Trades    int
	Wins      int
	NetPnL    float64
	TotalFees float64
	WinRate   float64
}

// MarketStats is the per-market breakdown, sorted descending by net PnL.
type MarketStats struct {
	Market       string
	Trades       int
	Wins         int
	NetPnL       float64
	TotalFees    float64
	WinRate      float64
	ProfitFactor float64
	AvgPnL       float64
}

// AnalyzeBySide partitions trades by direction and computes per-bucket
// PnL, win rate and profit factor. Output order is fixed: long, short.
func AnalyzeBySide(trades []*domain.Trade) []SideStats {
	out := []SideStats{{Side: domain.SideLong}, {Side: domain.SideShort}}
	for _, t := range trades {
		i := 1
		if t.Side == domain.SideLong {
			i = 0
		}
		s := &out[i]
		s.Trades++
		s.NetPnL += t.ClosedPnL
		s.TotalFees += t.Fee
		if t.Win() {
			s.Wins++
		} else if t.Loss() {
			s.Losses++
		}
	}
	for i := range out {
		s := &out[i]
		s.WinRate = winRatePct(s.Wins, s.Trades)
		s.ProfitFactor = sideProfitFactor(trades, s.Side)
	}
	return out
}

// sideProfitFactor recomputes gross profit/loss restricted to one side.
func sideProfitFactor(trades []*domain.Trade, side string) float64 {
	var gp, gl float64
	for _, t := range trades {
		if t.Side != side {
			continue
		}
		if t.ClosedPnL > 0 {
			gp += t.ClosedPnL
		} else {
			gl += -t.ClosedPnL
		}
	}
	return safeRatio(gp, gl)
}

// AnalyzeByRole partitions trades by maker/taker. Output order is fixed:
// maker, taker.
func AnalyzeByRole(trades []*domain.Trade) []RoleStats {
	out := []RoleStats{{Role: domain.RoleMaker}, {Role: domain.RoleTaker}}
	for _, t := range trades {
		i := 1
		if t.Role == domain.RoleMaker {
			i = 0
		}
		s := &out[i]
		s.Trades++
		s.NetPnL += t.ClosedPnL
		s.TotalFees += t.Fee
		if t.Win() {
			s.Wins++
		}
	}
	for i := range out {
		out[i].WinRate = winRatePct(out[i].Wins, out[i].Trades)
	}
	return out
}

// AnalyzeByType partitions trades by limit/market. Output order is fixed:
// limit, market.
func AnalyzeByType(trades []*domain.Trade) []TypeStats {
	out := []TypeStats{{Type: domain.TypeLimit}, {Type: domain.TypeMarket}}
	for _, t := range trades {
		i := 1
		if t.Type == domain.TypeLimit {
			i = 0
		}
		s := &out[i]
		s.Trades++
		s.NetPnL += t.ClosedPnL
		s.TotalFees += t.Fee
		if t.Win() {
			s.Wins++
		}
	}
	for i := range out {
		out[i].WinRate = winRatePct(out[i].Wins, out[i].Trades)
	}
	return out
}

// AnalyzeByMarket groups trades by market symbol and computes per-market
// metrics, sorted descending by net PnL (symbol ascending on ties so the
// ordering is deterministic).
func AnalyzeByMarket(trades []*domain.Trade) []MarketStats {
	type acc struct {
		stats  MarketStats
		gp, gl float64
	}
	byMarket := make(map[string]*acc)
	for _, t := range trades {
		a, ok := byMarket[t.Market]
		if !ok {
			a = &acc{stats: MarketStats{Market: t.Market}}
			byMarket[t.Market] = a
		}
		a.stats.Trades++
		a.stats.NetPnL += t.ClosedPnL
		a.stats.TotalFees += t.Fee
		if t.ClosedPnL > 0 {
			a.stats.Wins++
			a.gp += t.ClosedPnL
		} else {
			a.gl += -t.ClosedPnL
		}
	}

	out := make([]MarketStats, 0, len(byMarket))
	for _, a := range byMarket {
		a.stats.WinRate = winRatePct(a.stats.Wins, a.stats.Trades)
		a.stats.ProfitFactor = safeRatio(a.gp, a.gl)
		a.stats.AvgPnL = a.stats.NetPnL / float64(a.stats.Trades)
		out = append(out, a.stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NetPnL != out[j].NetPnL {
			return out[i].NetPnL > out[j].NetPnL
		}
		return out[i].Market < out[j].Market
	})
	return out
}
