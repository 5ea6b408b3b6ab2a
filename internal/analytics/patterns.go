package analytics

import (
	"lighter-lens/internal/domain"
)

// BucketStats is one hour-of-day or day-of-week bucket. Buckets are always
// emitted even when empty so the output length is fixed for chart rendering.
type BucketStats struct {
	Bucket  int // hour 0-23 or weekday 0=Sunday..6=Saturday
	Trades  int
	Wins    int
	NetPnL  float64
	WinRate float64
}

// AnalyzeHourlyPatterns buckets trades by local hour of day. The result
// always has length 24, including for an empty input.
func AnalyzeHourlyPatterns(trades []*domain.Trade) []BucketStats {
	out := make([]BucketStats, 24)
	for i := range out {
		out[i].Bucket = i
	}
	for _, t := range trades {
		b := &out[t.Date.Hour()]
		b.Trades++
		b.NetPnL += t.ClosedPnL
		if t.Win() {
			b.Wins++
		}
	}
	for i := range out {
		out[i].WinRate = winRatePct(out[i].Wins, out[i].Trades)
	}
	return out
}

// AnalyzeDailyPatterns buckets trades by local day of week (0=Sunday).
// The result always has length 7, including for an empty input.
func AnalyzeDailyPatterns(trades []*domain.Trade) []BucketStats {
	out := make([]BucketStats, 7)
	for i := range out {
		out[i].Bucket = i
	}
	for _, t := range trades {
		b := &out[int(t.Date.Weekday())]
		b.Trades++
		b.NetPnL += t.ClosedPnL
		if t.Win() {
			b.Wins++
		}
	}
	for i := range out {
		out[i].WinRate = winRatePct(out[i].Wins, out[i].Trades)
	}
	return out
}
