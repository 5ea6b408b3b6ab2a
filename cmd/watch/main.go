// Package main watches a live account: seeds state from a REST snapshot,
// then follows the WebSocket stream and prints a rolling summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lighter-lens/internal/config"
	"lighter-lens/internal/exchange"
	"lighter-lens/internal/format"
	"lighter-lens/internal/tracker"
)

func main() {
	address := flag.String("address", "", "L1 wallet address to watch")
	accountIndex := flag.Int64("account-index", -1, "Account index to watch (skips address lookup)")
	summaryInterval := flag.Duration("summary-interval", 30*time.Second, "How often to print the account summary")
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if *address == "" && *accountIndex < 0 {
		fmt.Fprintln(os.Stderr, "Error: --address or --account-index is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rest := exchange.NewRESTClient(cfg.Exchange.RESTBaseURL,
		exchange.WithTimeout(cfg.Exchange.Timeout),
		exchange.WithMaxRetries(cfg.Exchange.MaxRetries))

	index := *accountIndex
	if index < 0 {
		acct, err := rest.AccountByAddress(ctx, *address)
		if err != nil {
			logger.Fatalf("resolve address: %v", err)
		}
		index = acct.AccountIndex
		logger.Printf("account %s resolved to index %d", format.Address(*address), index)
	}

	tr := tracker.New(index, logger)

	snap, err := rest.AccountSnapshot(ctx, index)
	if err != nil {
		logger.Fatalf("fetch snapshot: %v", err)
	}
	tr.SeedSnapshot(snap.Positions, snap.Trades, snap.Stats)
	logger.Printf("seeded: %d positions, %d trades", len(snap.Positions), len(snap.Trades))

	ws, err := exchange.NewWSClient(ctx, cfg.Exchange.WSEndpoint, nil, logger)
	if err != nil {
		logger.Fatalf("connect stream: %v", err)
	}
	defer ws.Close()

	accountCh, err := ws.Subscribe("account_all/" + strconv.FormatInt(index, 10))
	if err != nil {
		logger.Fatalf("subscribe account channel: %v", err)
	}
	marketCh, err := ws.Subscribe("market_stats/all")
	if err != nil {
		logger.Fatalf("subscribe market channel: %v", err)
	}

	ticker := time.NewTicker(*summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Printf("shutting down")
			return
		case msg, ok := <-accountCh:
			if !ok {
				return
			}
			tr.ApplyAccountUpdate(msg.Payload)
		case msg, ok := <-marketCh:
			if !ok {
				return
			}
			tr.ApplyMarketStats(msg.Payload)
		case <-ticker.C:
			printSummary(logger, tr)
		}
	}
}

func printSummary(logger *log.Logger, tr *tracker.Tracker) {
	stats := tr.Stats()
	positions := tr.Positions()

	if stats == nil {
		logger.Printf("account %d: no stats yet, %d positions", tr.AccountIndex(), len(positions))
		return
	}

	logger.Printf("account %d: value=%s unrealized=%s positions=%d trades=%d",
		tr.AccountIndex(),
		format.Currency(stats.AccountValue),
		format.Currency(stats.UnrealizedPnL),
		len(positions),
		len(tr.Trades()))

	for _, p := range positions {
		dir := "short"
		if p.Long() {
			dir = "long"
		}
		logger.Printf("  %s %s %s @ %s (uPnL %s)",
			p.Symbol, dir, format.Quantity(p.Size),
			format.Currency(p.EntryPrice), format.Currency(p.UnrealizedPnL))
	}
}
