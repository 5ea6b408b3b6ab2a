// Package reporting assembles analytics output into a renderable report.
package reporting

import (
	"time"

	"lighter-lens/internal/analytics"
	"lighter-lens/internal/domain"
)

// Report is the full analytics report for one trade set.
type Report struct {
	GeneratedAt time.Time
	Source      string // file name or profile name
	Profile     string
	TradeCount  int
	Dropped     int

	KPIs    analytics.KPIs
	Sides   []analytics.SideStats
	Roles   []analytics.RoleStats
	Types   []analytics.TypeStats
	Markets []analytics.MarketStats

	Hourly []analytics.BucketStats
	Daily  []analytics.BucketStats

	Cumulative []analytics.SeriesPoint
	DailyPnL   []analytics.PeriodPoint
	WeeklyPnL  []analytics.PeriodPoint

	Streaks analytics.StreakSummary
}

// Generator builds reports from trade sets.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate runs the full analytics suite over the trades.
func (g *Generator) Generate(trades []*domain.Trade, source, profile string, dropped int) *Report {
	return &Report{
		GeneratedAt: g.now(),
		Source:      source,
		Profile:     profile,
		TradeCount:  len(trades),
		Dropped:     dropped,

		KPIs:    analytics.CalculateKPIs(trades),
		Sides:   analytics.AnalyzeBySide(trades),
		Roles:   analytics.AnalyzeByRole(trades),
		Types:   analytics.AnalyzeByType(trades),
		Markets: analytics.AnalyzeByMarket(trades),

		Hourly: analytics.AnalyzeHourlyPatterns(trades),
		Daily:  analytics.AnalyzeDailyPatterns(trades),

		Cumulative: analytics.CumulativePnL(trades),
		DailyPnL:   analytics.PeriodPnL(trades, analytics.PeriodDay),
		WeeklyPnL:  analytics.PeriodPnL(trades, analytics.PeriodWeek),

		Streaks: analytics.FindStreaks(trades),
	}
}
