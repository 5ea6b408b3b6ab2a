package analytics

import (
	"testing"
	"time"

	"lighter-lens/internal/domain"
)

func tradeAt(ts time.Time, pnl float64) *domain.Trade {
	return &domain.Trade{Date: ts, Market: "BTC-USD", ClosedPnL: pnl}
}

func TestAnalyzeHourlyPatterns_FixedLength(t *testing.T) {
	out := AnalyzeHourlyPatterns(nil)
	if len(out) != 24 {
		t.Fatalf("expected 24 buckets for empty input, got %d", len(out))
	}
	for i, b := range out {
		if b.Bucket != i {
			t.Errorf("bucket %d labeled %d", i, b.Bucket)
		}
		if b.Trades != 0 || b.NetPnL != 0 || b.WinRate != 0 {
			t.Errorf("empty bucket %d not zeroed: %+v", i, b)
		}
	}
}

func TestAnalyzeHourlyPatterns_Bucketing(t *testing.T) {
	trades := []*domain.Trade{
		tradeAt(time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC), 50),
		tradeAt(time.Date(2025, 3, 2, 9, 55, 0, 0, time.UTC), -20),
		tradeAt(time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC), 10),
	}

	out := AnalyzeHourlyPatterns(trades)

	if len(out) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(out))
	}
	h9 := out[9]
	if h9.Trades != 2 || h9.NetPnL != 30 || h9.WinRate != 50 {
		t.Errorf("hour 9 bucket wrong: %+v", h9)
	}
	if out[23].Trades != 1 || out[23].WinRate != 100 {
		t.Errorf("hour 23 bucket wrong: %+v", out[23])
	}
}

func TestAnalyzeDailyPatterns_FixedLength(t *testing.T) {
	out := AnalyzeDailyPatterns(nil)
	if len(out) != 7 {
		t.Fatalf("expected 7 buckets for empty input, got %d", len(out))
	}
}

func TestAnalyzeDailyPatterns_SundayIsZero(t *testing.T) {
	// 2025-03-02 is a Sunday.
	trades := []*domain.Trade{
		tradeAt(time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC), 75),
	}

	out := AnalyzeDailyPatterns(trades)

	if out[0].Trades != 1 || out[0].NetPnL != 75 {
		t.Errorf("Sunday bucket wrong: %+v", out[0])
	}
	for i := 1; i < 7; i++ {
		if out[i].Trades != 0 {
			t.Errorf("bucket %d should be empty", i)
		}
	}
}
