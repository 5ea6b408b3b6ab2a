package analytics

import (
	"sort"
	"time"

	"lighter-lens/internal/domain"
)

// Period selects the bucket width for PeriodPnL.
type Period string

// Period constants
const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week" // weeks start on Sunday
)

// SeriesPoint is one point of the cumulative PnL curve: one per trade, not
// one per calendar day.
type SeriesPoint struct {
	Date       time.Time
	Label      string // human-readable date, e.g. "Jan 2, 2006"
	PnL        float64
	Cumulative float64
}

// PeriodPoint is one calendar bucket of summed PnL.
type PeriodPoint struct {
	Start  time.Time // bucket start (midnight local, Sunday for weeks)
	Label  string
	PnL    float64
	Trades int
}

const labelLayout = "Jan 2, 2006"

// CumulativePnL sorts trades ascending by date and emits the running PnL
// total, one point per trade. Input is not mutated.
func CumulativePnL(trades []*domain.Trade) []SeriesPoint {
	sorted := sortByDate(trades)

	out := make([]SeriesPoint, 0, len(sorted))
	running := 0.0
	for _, t := range sorted {
		running += t.ClosedPnL
		out = append(out, SeriesPoint{
			Date:       t.Date,
			Label:      t.Date.Format(labelLayout),
			PnL:        t.ClosedPnL,
			Cumulative: running,
		})
	}
	return out
}

// PeriodPnL sums ClosedPnL per calendar day or per week starting Sunday,
// chronologically ordered. Only buckets containing trades are emitted.
func PeriodPnL(trades []*domain.Trade, period Period) []PeriodPoint {
	sums := make(map[time.Time]*PeriodPoint)
	for _, t := range trades {
		start := bucketStart(t.Date, period)
		p, ok := sums[start]
		if !ok {
			p = &PeriodPoint{Start: start, Label: start.Format(labelLayout)}
			sums[start] = p
		}
		p.PnL += t.ClosedPnL
		p.Trades++
	}

	out := make([]PeriodPoint, 0, len(sums))
	for _, p := range sums {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// bucketStart truncates a timestamp to its local midnight, stepping back to
// Sunday for weekly buckets.
func bucketStart(ts time.Time, period Period) time.Time {
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	if period == PeriodWeek {
		day = day.AddDate(0, 0, -int(day.Weekday()))
	}
	return day
}

// sortByDate returns a date-ascending copy, leaving the input untouched.
// Ties break on trade id so the ordering is deterministic.
func sortByDate(trades []*domain.Trade) []*domain.Trade {
	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
