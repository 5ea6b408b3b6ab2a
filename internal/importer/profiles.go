// Package importer turns trade-history CSV exports into canonical trade
// records: it detects which exchange produced a file from its header row,
// maps rows through the matching profile, and falls back to user-supplied
// column mappings for unrecognized formats.
package importer

// Profile names, in detection priority order.
const (
	ProfileLighter     = "lighter"
	ProfileHyperliquid = "hyperliquid"
	ProfileDydx        = "dydx"
	ProfileGeneric     = "generic"
)

// profile describes one known exchange export format: the headers its files
// carry and the column each canonical field reads from.
type profile struct {
	name    string
	headers []string // canonical header list, lower-case
	mapping ColumnMapping
}

// knownProfiles is the fixed priority order for detection. The first profile
// clearing the overlap threshold wins; no cross-profile scoring happens.
var knownProfiles = []profile{
	{
		name: ProfileLighter,
		headers: []string{
			"market", "side", "date", "trade value", "size",
			"price", "closed pnl", "fee", "role", "type",
		},
		mapping: ColumnMapping{
			Date:      "date",
			Market:    "market",
			Side:      "side",
			Size:      "size",
			Price:     "price",
			ClosedPnL: "closed pnl",
			Fee:       "fee",
			Role:      "role",
			Type:      "type",
		},
	},
	{
		name: ProfileHyperliquid,
		headers: []string{
			"time", "coin", "dir", "px", "sz", "ntl", "fee", "closed pnl",
		},
		mapping: ColumnMapping{
			Date:      "time",
			Market:    "coin",
			Side:      "dir",
			Size:      "sz",
			Price:     "px",
			ClosedPnL: "closed pnl",
			Fee:       "fee",
			// No role/type columns: rows default to taker/market.
		},
	},
	{
		name: ProfileDydx,
		headers: []string{
			"market", "side", "size", "price", "fee",
			"type", "liquidity", "created at", "realized pnl",
		},
		mapping: ColumnMapping{
			Date:      "created at",
			Market:    "market",
			Side:      "side",
			Size:      "size",
			Price:     "price",
			ClosedPnL: "realized pnl",
			Fee:       "fee",
			Role:      "liquidity", // "MAKER"/"TAKER" free text
			Type:      "type",
		},
	},
	{
		name: ProfileGeneric,
		headers: []string{
			"date", "market", "side", "size", "price", "pnl", "fee",
		},
		mapping: ColumnMapping{
			Date:      "date",
			Market:    "market",
			Side:      "side",
			Size:      "size",
			Price:     "price",
			ClosedPnL: "pnl",
			Fee:       "fee",
		},
	},
}
