package analytics

import (
	"time"

	"lighter-lens/internal/domain"
)

// StreakKind tags a run of consecutive wins or losses.
type StreakKind string

// Streak kinds
const (
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

// Streak is one closed run of consecutive same-sign outcomes.
type Streak struct {
	Kind     StreakKind
	Length   int
	TotalPnL float64
	Start    time.Time
	End      time.Time
}

// StreakSummary is the full streak analysis for a trade set.
type StreakSummary struct {
	Streaks     []Streak // chronological
	LongestWin  Streak   // zero value when no winning streak exists
	LongestLoss Streak
	Current     Streak // the still-open run ending at the latest trade
}

// FindStreaks walks trades in chronological order and accumulates
// consecutive win/loss runs. A streak closes when the PnL sign flips;
// zero-PnL trades close the open streak without starting one. All streak
// consumers share this single oldest-first ordering convention, including
// the current streak, which is simply the last (still open) run.
func FindStreaks(trades []*domain.Trade) StreakSummary {
	sorted := sortByDate(trades)

	var summary StreakSummary
	var open *Streak

	flush := func() {
		if open == nil {
			return
		}
		summary.Streaks = append(summary.Streaks, *open)
		if open.Kind == StreakWin && open.Length > summary.LongestWin.Length {
			summary.LongestWin = *open
		}
		if open.Kind == StreakLoss && open.Length > summary.LongestLoss.Length {
			summary.LongestLoss = *open
		}
		open = nil
	}

	for _, t := range sorted {
		var kind StreakKind
		switch {
		case t.ClosedPnL > 0:
			kind = StreakWin
		case t.ClosedPnL < 0:
			kind = StreakLoss
		default:
			// Flat trade: terminates the open run and joins none.
			flush()
			continue
		}

		if open != nil && open.Kind != kind {
			flush()
		}
		if open == nil {
			open = &Streak{Kind: kind, Start: t.Date}
		}
		open.Length++
		open.TotalPnL += t.ClosedPnL
		open.End = t.Date
	}

	if open != nil {
		summary.Current = *open
	}
	flush()

	return summary
}
