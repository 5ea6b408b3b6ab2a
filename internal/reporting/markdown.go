package reporting

import (
	"fmt"
	"strings"
	"time"

	"lighter-lens/internal/format"
)

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trade Analytics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Source: %s (profile: %s) | Trades: %d | Dropped rows: %d\n\n",
		r.Source, r.Profile, r.TradeCount, r.Dropped))

	// KPIs
	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	k := r.KPIs
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", k.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Net PnL | %s |\n", format.Currency(k.NetPnL)))
	sb.WriteString(fmt.Sprintf("| Total Fees | %s |\n", format.Currency(k.TotalFees)))
	sb.WriteString(fmt.Sprintf("| Win Rate | %s |\n", format.Percent(k.WinRate)))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", format.Ratio(k.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Payoff Ratio | %s |\n", format.Ratio(k.PayoffRatio)))
	sb.WriteString(fmt.Sprintf("| Avg Trade | %s |\n", format.Currency(k.AvgTrade)))
	sb.WriteString(fmt.Sprintf("| Avg Winner | %s |\n", format.Currency(k.AvgWinner)))
	sb.WriteString(fmt.Sprintf("| Avg Loser | %s |\n", format.Currency(k.AvgLoser)))
	sb.WriteString(fmt.Sprintf("| Largest Win | %s |\n", format.Currency(k.LargestWin)))
	sb.WriteString(fmt.Sprintf("| Largest Loss | %s |\n", format.Currency(k.LargestLoss)))
	sb.WriteString("\n")

	// Direction breakdown
	sb.WriteString("## By Direction\n\n")
	sb.WriteString("| Side | Trades | Wins | Losses | Net PnL | Fees | Win Rate | Profit Factor |\n")
	sb.WriteString("|------|--------|------|--------|---------|------|----------|---------------|\n")
	for _, s := range r.Sides {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s | %s | %s | %s |\n",
			s.Side, s.Trades, s.Wins, s.Losses,
			format.Currency(s.NetPnL), format.Currency(s.TotalFees),
			format.Percent(s.WinRate), format.Ratio(s.ProfitFactor)))
	}
	sb.WriteString("\n")

	// Role breakdown
	sb.WriteString("## By Role\n\n")
	sb.WriteString("| Role | Trades | Wins | Net PnL | Fees | Win Rate |\n")
	sb.WriteString("|------|--------|------|---------|------|----------|\n")
	for _, s := range r.Roles {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s |\n",
			s.Role, s.Trades, s.Wins,
			format.Currency(s.NetPnL), format.Currency(s.TotalFees), format.Percent(s.WinRate)))
	}
	sb.WriteString("\n")

	// Order type breakdown
	sb.WriteString("## By Order Type\n\n")
	sb.WriteString("| Type | Trades | Wins | Net PnL | Fees | Win Rate |\n")
	sb.WriteString("|------|--------|------|---------|------|----------|\n")
	for _, s := range r.Types {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s |\n",
			s.Type, s.Trades, s.Wins,
			format.Currency(s.NetPnL), format.Currency(s.TotalFees), format.Percent(s.WinRate)))
	}
	sb.WriteString("\n")

	// Market breakdown
	sb.WriteString("## By Market\n\n")
	if len(r.Markets) > 0 {
		sb.WriteString("| Market | Trades | Wins | Net PnL | Fees | Win Rate | Profit Factor | Avg PnL |\n")
		sb.WriteString("|--------|--------|------|---------|------|----------|---------------|--------|\n")
		for _, m := range r.Markets {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s | %s | %s |\n",
				m.Market, m.Trades, m.Wins,
				format.Currency(m.NetPnL), format.Currency(m.TotalFees),
				format.Percent(m.WinRate), format.Ratio(m.ProfitFactor), format.Currency(m.AvgPnL)))
		}
	} else {
		sb.WriteString("No trades.\n")
	}
	sb.WriteString("\n")

	// Time patterns: only buckets with activity are listed
	sb.WriteString("## Hourly Pattern\n\n")
	sb.WriteString("| Hour | Trades | Wins | Net PnL | Win Rate |\n")
	sb.WriteString("|------|--------|------|---------|----------|\n")
	for _, b := range r.Hourly {
		if b.Trades == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %02d:00 | %d | %d | %s | %s |\n",
			b.Bucket, b.Trades, b.Wins, format.Currency(b.NetPnL), format.Percent(b.WinRate)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Daily Pattern\n\n")
	sb.WriteString("| Day | Trades | Wins | Net PnL | Win Rate |\n")
	sb.WriteString("|-----|--------|------|---------|----------|\n")
	for _, b := range r.Daily {
		if b.Trades == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s |\n",
			weekdayNames[b.Bucket], b.Trades, b.Wins, format.Currency(b.NetPnL), format.Percent(b.WinRate)))
	}
	sb.WriteString("\n")

	// Streaks
	sb.WriteString("## Streaks\n\n")
	if r.Streaks.LongestWin.Length > 0 {
		sb.WriteString(fmt.Sprintf("- Longest win streak: %d trades (%s)\n",
			r.Streaks.LongestWin.Length, format.Currency(r.Streaks.LongestWin.TotalPnL)))
	}
	if r.Streaks.LongestLoss.Length > 0 {
		sb.WriteString(fmt.Sprintf("- Longest loss streak: %d trades (%s)\n",
			r.Streaks.LongestLoss.Length, format.Currency(r.Streaks.LongestLoss.TotalPnL)))
	}
	if r.Streaks.Current.Length > 0 {
		sb.WriteString(fmt.Sprintf("- Current streak: %d %s trades (%s)\n",
			r.Streaks.Current.Length, r.Streaks.Current.Kind,
			format.Currency(r.Streaks.Current.TotalPnL)))
	}
	if r.Streaks.LongestWin.Length == 0 && r.Streaks.LongestLoss.Length == 0 {
		sb.WriteString("No streaks.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
