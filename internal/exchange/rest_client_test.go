package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRESTClient_AccountByAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/account" {
			t.Errorf("expected path /api/v1/account, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("by"); got != "l1_address" {
			t.Errorf("expected by=l1_address, got %s", got)
		}
		if got := r.URL.Query().Get("value"); got != "0xabc" {
			t.Errorf("expected value=0xabc, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts": []map[string]interface{}{
				{"account_index": int64(42), "l1_address": "0xabc"},
			},
		})
	}))
	defer server.Close()

	client := NewRESTClient(server.URL)
	ctx := context.Background()

	acct, err := client.AccountByAddress(ctx, "0xabc")
	if err != nil {
		t.Fatalf("AccountByAddress: %v", err)
	}

	if acct.AccountIndex != 42 {
		t.Errorf("expected account index 42, got %d", acct.AccountIndex)
	}

	if acct.L1Address != "0xabc" {
		t.Errorf("expected address 0xabc, got %s", acct.L1Address)
	}
}

func TestRESTClient_AccountByAddress_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts": []map[string]interface{}{},
		})
	}))
	defer server.Close()

	client := NewRESTClient(server.URL)

	_, err := client.AccountByAddress(context.Background(), "0xnobody")
	if err == nil {
		t.Fatal("expected error for unknown address, got nil")
	}
}

func TestRESTClient_AccountSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accountSnapshot" {
			t.Errorf("expected path /api/v1/accountSnapshot, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("account_index"); got != "7" {
			t.Errorf("expected account_index=7, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"positions": [
				{"market_id": 1, "symbol": "ETH", "sign": 1, "position": "2.5", "avg_entry_price": "3000"}
			],
			"trades": [
				{"trade_id": 900, "market": "ETH", "is_long": true, "size": "1", "price": "3100", "closed_pnl": "25", "timestamp": 1700000000000},
				{"trade_id": 901, "market": "ETH", "is_long": false, "size": "1", "price": "3050", "closed_pnl": "-10", "timestamp": 1700000100000}
			],
			"stats": {"account_value": "12500", "total_margin": "900"}
		}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL)

	snap, err := client.AccountSnapshot(context.Background(), 7)
	if err != nil {
		t.Fatalf("AccountSnapshot: %v", err)
	}

	if len(snap.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(snap.Positions))
	}
	if snap.Positions[0].Symbol != "ETH" || snap.Positions[0].Size != 2.5 {
		t.Errorf("unexpected position: %+v", snap.Positions[0])
	}

	if len(snap.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(snap.Trades))
	}
	// Trades come back newest first
	if snap.Trades[0].ID != "901" {
		t.Errorf("expected newest trade first, got id %s", snap.Trades[0].ID)
	}

	if snap.Stats == nil {
		t.Fatal("expected stats, got nil")
	}
	if snap.Stats.AccountValue != 12500 {
		t.Errorf("expected account value 12500, got %f", snap.Stats.AccountValue)
	}
}

func TestRESTClient_OrderBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"order_books": [
				{"market_id": 0, "symbol": "ETH", "last_trade_price": "3000", "daily_price_change": "1.5"},
				{"market_id": 1, "symbol": "BTC", "last_trade_price": "60000", "daily_price_change": "-0.4"},
				{"noise": true}
			]
		}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL)

	stats, err := client.OrderBooks(context.Background())
	if err != nil {
		t.Fatalf("OrderBooks: %v", err)
	}

	// Entry without market id or symbol is dropped
	if len(stats) != 2 {
		t.Fatalf("expected 2 markets, got %d", len(stats))
	}
	if stats[1].Symbol != "BTC" || stats[1].LastPrice != 60000 {
		t.Errorf("unexpected market stats: %+v", stats[1])
	}
}

func TestRESTClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_books": []}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, WithMaxRetries(3), WithRetryDelay(10*time.Millisecond))

	if _, err := client.OrderBooks(context.Background()); err != nil {
		t.Fatalf("OrderBooks after retries: %v", err)
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestRESTClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, WithMaxRetries(3), WithRetryDelay(10*time.Millisecond))

	if _, err := client.OrderBooks(context.Background()); err == nil {
		t.Fatal("expected error for 400 response, got nil")
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestRESTClient_ContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, WithMaxRetries(10), WithRetryDelay(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.OrderBooks(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("retries did not stop on context cancellation")
	}
}
