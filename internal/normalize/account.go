package normalize

import (
	"encoding/json"

	"lighter-lens/internal/domain"
)

type rawUserStats struct {
	AccountValue  flexFloat `json:"account_value"`
	AccountValue2 flexFloat `json:"accountValue"`
	TotalMargin   flexFloat `json:"total_margin"`
	TotalMargin2  flexFloat `json:"totalMargin"`
	AvailMargin   flexFloat `json:"available_margin"`
	AvailMargin2  flexFloat `json:"availableMargin"`
	UnrealizedPnL flexFloat `json:"unrealized_pnl"`
	RealizedPnL   flexFloat `json:"realized_pnl"`
	Leverage      flexFloat `json:"leverage"`
}

// UserStats coalesces the account summary payload. Returns a zero-valued
// record (never nil) so a missing stats block degrades to zeros.
func UserStats(raw json.RawMessage) *domain.UserStats {
	var ru rawUserStats
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &ru) // partial decode is fine, fields default
	}
	return &domain.UserStats{
		AccountValue:    coalesce(ru.AccountValue, ru.AccountValue2),
		TotalMargin:     coalesce(ru.TotalMargin, ru.TotalMargin2),
		AvailableMargin: coalesce(ru.AvailMargin, ru.AvailMargin2),
		UnrealizedPnL:   float64(ru.UnrealizedPnL),
		RealizedPnL:     float64(ru.RealizedPnL),
		Leverage:        float64(ru.Leverage),
	}
}
