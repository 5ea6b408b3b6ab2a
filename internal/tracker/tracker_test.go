package tracker

import (
	"encoding/json"
	"testing"
	"time"

	"lighter-lens/internal/domain"
)

func newTestTracker() (*Tracker, *time.Time) {
	t := New(7, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t.now = func() time.Time { return now }
	return t, &now
}

func TestApplyAccountUpdate_Positions(t *testing.T) {
	tr, _ := newTestTracker()

	tr.ApplyAccountUpdate(json.RawMessage(`{
		"positions": [
			{"market_id": 1, "symbol": "ETH", "position": "2", "avg_entry_price": "3000"},
			{"market_id": 2, "symbol": "BTC", "position": "-0.5", "avg_entry_price": "60000"}
		]
	}`))

	got := tr.Positions()
	if len(got) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(got))
	}

	// Closing update removes the market, other markets stay
	tr.ApplyAccountUpdate(json.RawMessage(`{
		"positions": [{"market_id": 1, "symbol": "ETH", "position": "0"}]
	}`))

	got = tr.Positions()
	if len(got) != 1 {
		t.Fatalf("expected 1 position after close, got %d", len(got))
	}
	if got[0].Symbol != "BTC" {
		t.Errorf("expected BTC to survive, got %s", got[0].Symbol)
	}
}

func TestApplyAccountUpdate_TradesDedupe(t *testing.T) {
	tr, _ := newTestTracker()

	tr.ApplyAccountUpdate(json.RawMessage(`{
		"trades": [
			{"trade_id": 1, "market": "ETH", "closed_pnl": "10", "timestamp": 1700000000000}
		]
	}`))
	tr.ApplyAccountUpdate(json.RawMessage(`{
		"trades": [
			{"trade_id": 1, "market": "ETH", "closed_pnl": "10", "timestamp": 1700000000000},
			{"trade_id": 2, "market": "ETH", "closed_pnl": "-5", "timestamp": 1700000100000}
		]
	}`))

	got := tr.Trades()
	if len(got) != 2 {
		t.Fatalf("expected 2 trades after dedupe, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Errorf("expected newest trade first, got id %s", got[0].ID)
	}
}

func TestApplyAccountUpdate_MalformedIgnored(t *testing.T) {
	tr, _ := newTestTracker()

	tr.ApplyAccountUpdate(json.RawMessage(`{"positions": [{"market_id": 1, "symbol": "ETH", "position": "1"}]}`))
	tr.ApplyAccountUpdate(json.RawMessage(`not json`))

	if got := tr.Positions(); len(got) != 1 {
		t.Errorf("malformed update should not touch state, got %d positions", len(got))
	}
}

func TestApplyMarketStats_Upsert(t *testing.T) {
	tr, _ := newTestTracker()

	tr.ApplyMarketStats(json.RawMessage(`{"market_id": 3, "symbol": "SOL", "last_trade_price": "150"}`))
	tr.ApplyMarketStats(json.RawMessage(`{"market_id": 3, "symbol": "SOL", "last_trade_price": "155"}`))

	ms, ok := tr.Market(3)
	if !ok {
		t.Fatal("expected market 3 to exist")
	}
	if ms.LastPrice != 155 {
		t.Errorf("expected last price 155, got %f", ms.LastPrice)
	}

	if len(tr.Markets()) != 1 {
		t.Errorf("expected 1 market, got %d", len(tr.Markets()))
	}
}

func TestPnLHistory_ThrottleCoalesces(t *testing.T) {
	tr, now := newTestTracker()

	tr.ApplyAccountUpdate(json.RawMessage(`{"stats": {"account_value": "1000"}}`))

	// Second update lands inside the window and replaces the first point
	*now = now.Add(10 * time.Second)
	tr.ApplyAccountUpdate(json.RawMessage(`{"stats": {"account_value": "1010"}}`))

	hist := tr.PnLHistory()
	if len(hist) != 1 {
		t.Fatalf("expected 1 coalesced point, got %d", len(hist))
	}
	if hist[0].Value != 1010 {
		t.Errorf("expected coalesced value 1010, got %f", hist[0].Value)
	}

	// Past the window a new point is appended
	*now = now.Add(DefaultPnLThrottle)
	tr.ApplyAccountUpdate(json.RawMessage(`{"stats": {"account_value": "990"}}`))

	hist = tr.PnLHistory()
	if len(hist) != 2 {
		t.Fatalf("expected 2 points, got %d", len(hist))
	}
	if hist[1].Value != 990 {
		t.Errorf("expected latest value 990, got %f", hist[1].Value)
	}
}

func TestSeedSnapshot(t *testing.T) {
	tr, _ := newTestTracker()

	tr.SeedSnapshot(
		[]*domain.Position{{MarketID: 1, Symbol: "ETH", Size: 2}},
		[]*domain.Trade{{ID: "a", Date: time.UnixMilli(1700000000000), ClosedPnL: 5}},
		&domain.UserStats{AccountValue: 500},
	)

	if len(tr.Positions()) != 1 {
		t.Errorf("expected 1 position, got %d", len(tr.Positions()))
	}
	if len(tr.Trades()) != 1 {
		t.Errorf("expected 1 trade, got %d", len(tr.Trades()))
	}

	stats := tr.Stats()
	if stats == nil || stats.AccountValue != 500 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if len(tr.PnLHistory()) != 1 {
		t.Errorf("expected seeded PnL point, got %d", len(tr.PnLHistory()))
	}
}

func TestSnapshotReadsAreCopies(t *testing.T) {
	tr, _ := newTestTracker()

	tr.SeedSnapshot([]*domain.Position{{MarketID: 1, Symbol: "ETH", Size: 2}}, nil, nil)

	got := tr.Positions()
	got[0] = nil

	if tr.Positions()[0] == nil {
		t.Error("mutating the returned slice must not affect tracker state")
	}
}
