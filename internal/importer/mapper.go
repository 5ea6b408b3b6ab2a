package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/idhash"
)

// ColumnMapping binds each canonical trade field to a source column name.
// Date, Market and ClosedPnL are required; the rest are optional with
// defined defaults. Used both by the built-in profiles and by the manual
// mapping flow for unrecognized files.
type ColumnMapping struct {
	Date      string
	Market    string
	Side      string
	Size      string
	Price     string
	ClosedPnL string
	Fee       string
	Role      string
	Type      string
}

// Complete reports whether the required bindings are present.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Market != "" && m.ClosedPnL != ""
}

// MapRow converts one raw CSV row into a canonical trade. Returns
// (nil, false), never an error, when the row lacks a parseable date, a
// market, or a closed-PnL value: invalid rows are dropped, not admitted
// partially. rowIdx feeds the deterministic import id.
func (m ColumnMapping) MapRow(record map[string]string, rowIdx int) (*domain.Trade, bool) {
	date, ok := parseDate(record[m.Date])
	if !ok {
		return nil, false
	}

	market := strings.ToUpper(strings.TrimSpace(record[m.Market]))
	if market == "" {
		return nil, false
	}

	pnlRaw := strings.TrimSpace(record[m.ClosedPnL])
	if pnlRaw == "" {
		return nil, false
	}
	pnl := parseNumber(pnlRaw)

	t := &domain.Trade{
		Date:      date,
		Market:    market,
		Side:      inferSide(record[m.Side]),
		Size:      math.Abs(parseNumber(record[m.Size])),
		Price:     parseNumber(record[m.Price]),
		ClosedPnL: pnl,
		Fee:       math.Abs(parseNumber(record[m.Fee])),
		Role:      inferRole(record[m.Role]),
		Type:      inferType(record[m.Type]),
	}
	t.ID = idhash.ImportedTradeID(t.Market, t.Date.UnixMilli(), t.Price, t.Size, t.ClosedPnL, rowIdx)
	return t, true
}

// inferSide classifies free-text direction via substring containment:
// "long"/"buy" → long, anything else → short. Absence of a positive signal
// is short, never an error.
func inferSide(s string) string {
	s = strings.ToLower(s)
	if strings.Contains(s, "long") || strings.Contains(s, "buy") {
		return domain.SideLong
	}
	return domain.SideShort
}

// inferRole: "maker" → maker, else taker.
func inferRole(s string) string {
	if strings.Contains(strings.ToLower(s), "maker") {
		return domain.RoleMaker
	}
	return domain.RoleTaker
}

// inferType: "limit" → limit, else market.
func inferType(s string) string {
	if strings.Contains(strings.ToLower(s), "limit") {
		return domain.TypeLimit
	}
	return domain.TypeMarket
}

// dateLayouts are tried in order. Exports disagree on date formatting more
// than on anything else.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
	"01/02/2006",
}

// parseDate attempts the known layouts, then unix seconds/milliseconds.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		if n > 1e12 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}

// parseNumber strips currency decoration ($, %, commas, spaces) and parses,
// defaulting to 0 on failure. Malformed numerics never fail a row; only
// missing required fields do.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	neg := false
	// Accounting-style negatives: (12.50)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		v = -v
	}
	return v
}
