package reporting

import (
	"fmt"
	"strings"

	"lighter-lens/internal/analytics"
)

// RenderMarketsCSV renders the per-market breakdown as a CSV string.
func RenderMarketsCSV(markets []analytics.MarketStats) string {
	var sb strings.Builder

	sb.WriteString("market,trades,wins,net_pnl,total_fees,win_rate,profit_factor,avg_pnl\n")

	for _, m := range markets {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			m.Market,
			m.Trades,
			m.Wins,
			m.NetPnL,
			m.TotalFees,
			m.WinRate,
			m.ProfitFactor,
			m.AvgPnL,
		))
	}

	return sb.String()
}

// RenderSeriesCSV renders the cumulative PnL curve as a CSV string.
func RenderSeriesCSV(points []analytics.SeriesPoint) string {
	var sb strings.Builder

	sb.WriteString("date,pnl,cumulative\n")

	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f\n",
			p.Date.Format("2006-01-02T15:04:05Z07:00"),
			p.PnL,
			p.Cumulative,
		))
	}

	return sb.String()
}
