package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ImportedTradeID computes a deterministic id for a CSV-imported trade.
// Exports carry no exchange trade id, so imported rows need a stable
// identity to flow through the same dedupe path as live trades.
// Formula: SHA256(market|unix_ms|price|size|closed_pnl|row)
// Returns hex-encoded hash (64 characters).
func ImportedTradeID(market string, unixMs int64, price, size, closedPnL float64, row int) string {
	data := fmt.Sprintf("%s|%d|%g|%g|%g|%d",
		market,
		unixMs,
		price,
		size,
		closedPnL,
		row,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
