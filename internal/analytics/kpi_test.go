package analytics

import (
	"math"
	"testing"
	"time"

	"lighter-lens/internal/domain"
)

func tradePnL(pnl float64) *domain.Trade {
	return &domain.Trade{
		Date:      time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		Market:    "BTC-USD",
		Side:      domain.SideLong,
		ClosedPnL: pnl,
	}
}

func TestCalculateKPIs_Basic(t *testing.T) {
	// netPnL=80, winRate=66.7%, grossProfit=120, grossLoss=40, profitFactor=3
	trades := []*domain.Trade{tradePnL(100), tradePnL(-40), tradePnL(20)}

	k := CalculateKPIs(trades)

	if k.NetPnL != 80 {
		t.Errorf("NetPnL = %v, want 80", k.NetPnL)
	}
	if k.GrossProfit != 120 {
		t.Errorf("GrossProfit = %v, want 120", k.GrossProfit)
	}
	if k.GrossLoss != 40 {
		t.Errorf("GrossLoss = %v, want 40", k.GrossLoss)
	}
	if k.ProfitFactor != 3 {
		t.Errorf("ProfitFactor = %v, want 3", k.ProfitFactor)
	}
	if math.Abs(k.WinRate-66.6666) > 0.01 {
		t.Errorf("WinRate = %v, want ~66.67", k.WinRate)
	}
}

func TestCalculateKPIs_NoLosses(t *testing.T) {
	trades := []*domain.Trade{tradePnL(50)}

	k := CalculateKPIs(trades)

	if k.GrossLoss != 0 {
		t.Errorf("GrossLoss = %v, want 0", k.GrossLoss)
	}
	if !math.IsInf(k.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf", k.ProfitFactor)
	}
	if !math.IsInf(k.PayoffRatio, 1) {
		t.Errorf("PayoffRatio = %v, want +Inf", k.PayoffRatio)
	}
}

func TestCalculateKPIs_Empty(t *testing.T) {
	k := CalculateKPIs(nil)

	if k.TotalTrades != 0 || k.NetPnL != 0 {
		t.Errorf("empty input should produce zero KPIs, got %+v", k)
	}
	// Both gross figures zero → profit factor is 0, not Inf or NaN.
	if k.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0", k.ProfitFactor)
	}
	if k.PayoffRatio != 0 {
		t.Errorf("PayoffRatio = %v, want 0", k.PayoffRatio)
	}
}

func TestCalculateKPIs_ZeroPnLTradesCountNeither(t *testing.T) {
	trades := []*domain.Trade{tradePnL(10), tradePnL(0), tradePnL(-5), tradePnL(0)}

	k := CalculateKPIs(trades)

	if k.WinningTrades+k.LosingTrades > len(trades) {
		t.Errorf("wins+losses = %d exceeds total %d", k.WinningTrades+k.LosingTrades, len(trades))
	}
	if k.WinningTrades != 1 || k.LosingTrades != 1 {
		t.Errorf("wins=%d losses=%d, want 1/1", k.WinningTrades, k.LosingTrades)
	}
	if k.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", k.TotalTrades)
	}
	// Win rate denominator is total trades, flats included.
	if k.WinRate != 25 {
		t.Errorf("WinRate = %v, want 25", k.WinRate)
	}
}

func TestCalculateKPIs_NetPnLIgnoresFees(t *testing.T) {
	trades := []*domain.Trade{
		{Date: time.Now(), Market: "ETH-USD", ClosedPnL: 100, Fee: 7},
		{Date: time.Now(), Market: "ETH-USD", ClosedPnL: -30, Fee: 3},
	}

	k := CalculateKPIs(trades)

	if k.NetPnL != 70 {
		t.Errorf("NetPnL = %v, want 70 (fees must not be subtracted)", k.NetPnL)
	}
	if k.TotalFees != 10 {
		t.Errorf("TotalFees = %v, want 10", k.TotalFees)
	}
}

func TestCalculateKPIs_OnlyLosses(t *testing.T) {
	trades := []*domain.Trade{tradePnL(-10), tradePnL(-20)}

	k := CalculateKPIs(trades)

	if k.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0 when gross profit is zero", k.ProfitFactor)
	}
	if k.AvgLoser != 15 {
		t.Errorf("AvgLoser = %v, want 15", k.AvgLoser)
	}
	if k.AvgWinner != 0 {
		t.Errorf("AvgWinner = %v, want 0", k.AvgWinner)
	}
	if k.LargestLoss != -20 {
		t.Errorf("LargestLoss = %v, want -20", k.LargestLoss)
	}
}
