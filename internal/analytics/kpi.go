// Package analytics computes derived trading metrics over canonical trade
// records. All functions are pure: inputs are never mutated, empty input
// yields zero-valued output, and division-by-zero resolves to the fixed
// Inf/0 convention instead of an error.
package analytics

import (
	"math"

	"lighter-lens/internal/domain"
)

// KPIs is the headline performance summary for a set of trades.
type KPIs struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	NetPnL      float64 // sum of ClosedPnL, fees not subtracted
	TotalFees   float64
	GrossProfit float64 // sum of positive ClosedPnL
	GrossLoss   float64 // abs(sum of negative ClosedPnL)

	WinRate      float64 // percent
	ProfitFactor float64 // GrossProfit/GrossLoss; +Inf when loss-free, 0 when profit-free
	AvgWinner    float64
	AvgLoser     float64 // reported positive
	PayoffRatio  float64 // AvgWinner/AvgLoser, same Inf/0 convention
	AvgTrade     float64 // NetPnL / TotalTrades

	LargestWin  float64
	LargestLoss float64 // reported negative
}

// CalculateKPIs computes the headline metrics for a trade set.
// Zero-PnL trades count toward TotalTrades but neither wins nor losses.
func CalculateKPIs(trades []*domain.Trade) KPIs {
	k := KPIs{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return k
	}

	for _, t := range trades {
		k.NetPnL += t.ClosedPnL
		k.TotalFees += t.Fee
		switch {
		case t.ClosedPnL > 0:
			k.WinningTrades++
			k.GrossProfit += t.ClosedPnL
			if t.ClosedPnL > k.LargestWin {
				k.LargestWin = t.ClosedPnL
			}
		case t.ClosedPnL < 0:
			k.LosingTrades++
			k.GrossLoss += -t.ClosedPnL
			if t.ClosedPnL < k.LargestLoss {
				k.LargestLoss = t.ClosedPnL
			}
		}
	}

	k.WinRate = float64(k.WinningTrades) / float64(k.TotalTrades) * 100
	k.ProfitFactor = safeRatio(k.GrossProfit, k.GrossLoss)
	if k.WinningTrades > 0 {
		k.AvgWinner = k.GrossProfit / float64(k.WinningTrades)
	}
	if k.LosingTrades > 0 {
		k.AvgLoser = k.GrossLoss / float64(k.LosingTrades)
	}
	k.PayoffRatio = safeRatio(k.AvgWinner, k.AvgLoser)
	k.AvgTrade = k.NetPnL / float64(k.TotalTrades)

	return k
}

// safeRatio divides num by den under the fixed edge-case policy:
// 0 when num is zero (regardless of den), +Inf when den is zero and num is
// positive. Never returns NaN.
func safeRatio(num, den float64) float64 {
	if num == 0 {
		return 0
	}
	if den == 0 {
		return math.Inf(1)
	}
	return num / den
}

// winRatePct is the shared percent win-rate helper for the group analyses.
func winRatePct(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
