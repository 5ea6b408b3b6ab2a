package importer

import (
	"testing"
	"time"

	"lighter-lens/internal/domain"
)

var lighterMapping = ColumnMapping{
	Date:      "date",
	Market:    "market",
	Side:      "side",
	Size:      "size",
	Price:     "price",
	ClosedPnL: "closed pnl",
	Fee:       "fee",
	Role:      "role",
	Type:      "type",
}

func TestMapRow_Complete(t *testing.T) {
	row := map[string]string{
		"date":       "2025-01-02 10:30:00",
		"market":     "btc-usd",
		"side":       "Open Long",
		"size":       "0.25",
		"price":      "42,150.50",
		"closed pnl": "$103.20",
		"fee":        "-1.25",
		"role":       "Maker",
		"type":       "Limit Order",
	}

	trade, ok := lighterMapping.MapRow(row, 0)
	if !ok {
		t.Fatal("MapRow() dropped a valid row")
	}

	if trade.Market != "BTC-USD" {
		t.Errorf("Market = %s, want BTC-USD (upper-cased)", trade.Market)
	}
	if trade.Side != domain.SideLong {
		t.Errorf("Side = %s, want long", trade.Side)
	}
	if trade.Price != 42150.50 {
		t.Errorf("Price = %v, want 42150.50 (comma stripped)", trade.Price)
	}
	if trade.ClosedPnL != 103.20 {
		t.Errorf("ClosedPnL = %v, want 103.20 ($ stripped)", trade.ClosedPnL)
	}
	if trade.Fee != 1.25 {
		t.Errorf("Fee = %v, want 1.25 (sign normalized)", trade.Fee)
	}
	if trade.Role != domain.RoleMaker {
		t.Errorf("Role = %s, want maker", trade.Role)
	}
	if trade.Type != domain.TypeLimit {
		t.Errorf("Type = %s, want limit", trade.Type)
	}
	want := time.Date(2025, 1, 2, 10, 30, 0, 0, time.UTC)
	if !trade.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", trade.Date, want)
	}
	if len(trade.ID) != 64 {
		t.Errorf("ID length = %d, want deterministic 64-char hash", len(trade.ID))
	}
}

func TestMapRow_DropsUnparseableDate(t *testing.T) {
	row := map[string]string{
		"date":       "not a date",
		"market":     "BTC-USD",
		"closed pnl": "10",
	}

	if _, ok := lighterMapping.MapRow(row, 0); ok {
		t.Error("row with unparseable date must be dropped")
	}
}

func TestMapRow_DropsMissingRequired(t *testing.T) {
	base := map[string]string{
		"date":       "2025-01-02",
		"market":     "BTC-USD",
		"closed pnl": "10",
	}

	noMarket := cloneRow(base)
	noMarket["market"] = ""
	if _, ok := lighterMapping.MapRow(noMarket, 0); ok {
		t.Error("row without market must be dropped")
	}

	noPnL := cloneRow(base)
	noPnL["closed pnl"] = ""
	if _, ok := lighterMapping.MapRow(noPnL, 0); ok {
		t.Error("row without closed pnl must be dropped")
	}
}

func TestMapRow_DefaultsWithoutPositiveSignal(t *testing.T) {
	// Absent side/role/type text short-circuits to short/taker/market.
	row := map[string]string{
		"date":       "2025-01-02",
		"market":     "ETH-USD",
		"closed pnl": "-4.5",
	}

	trade, ok := lighterMapping.MapRow(row, 3)
	if !ok {
		t.Fatal("MapRow() dropped a valid row")
	}
	if trade.Side != domain.SideShort {
		t.Errorf("Side = %s, want short default", trade.Side)
	}
	if trade.Role != domain.RoleTaker {
		t.Errorf("Role = %s, want taker default", trade.Role)
	}
	if trade.Type != domain.TypeMarket {
		t.Errorf("Type = %s, want market default", trade.Type)
	}
	// Malformed optional numerics coerce to zero, never drop the row.
	if trade.Size != 0 || trade.Price != 0 || trade.Fee != 0 {
		t.Errorf("optional numerics should default to 0: %+v", trade)
	}
}

func TestMapRow_SideInference(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Long", domain.SideLong},
		{"Open Long", domain.SideLong},
		{"buy", domain.SideLong},
		{"BUY", domain.SideLong},
		{"Short", domain.SideShort},
		{"sell", domain.SideShort},
		{"", domain.SideShort},
		{"close", domain.SideShort},
	}
	for _, tt := range tests {
		if got := inferSide(tt.in); got != tt.want {
			t.Errorf("inferSide(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseDate_UnixTimestamps(t *testing.T) {
	ts, ok := parseDate("1704067234567")
	if !ok {
		t.Fatal("unix milliseconds should parse")
	}
	if ts.UnixMilli() != 1704067234567 {
		t.Errorf("UnixMilli = %d", ts.UnixMilli())
	}

	ts, ok = parseDate("1704067234")
	if !ok {
		t.Fatal("unix seconds should parse")
	}
	if ts.Unix() != 1704067234 {
		t.Errorf("Unix = %d", ts.Unix())
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"$42.00", 42},
		{"-3.5", -3.5},
		{"(12.50)", -12.5},
		{"12.3%", 12.3},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.in); got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func cloneRow(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
