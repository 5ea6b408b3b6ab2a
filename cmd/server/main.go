// Package main runs the dashboard API server: exchange reads behind the
// cache layer, CSV import, and analytics over imported or live trades.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"lighter-lens/internal/cache"
	"lighter-lens/internal/config"
	"lighter-lens/internal/domain"
	"lighter-lens/internal/exchange"
	"lighter-lens/internal/importer"
	"lighter-lens/internal/reporting"
	"lighter-lens/internal/storage"
	"lighter-lens/internal/storage/memory"
	"lighter-lens/internal/storage/migrations"
	pgstore "lighter-lens/internal/storage/postgres"
)

// Server wires the HTTP API to the exchange client, cache and stores.
type Server struct {
	rest    *exchange.RESTClient
	cache   *cache.Manager
	imports storage.ImportStore
	reports *reporting.Generator
	logger  *log.Logger
}

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.Printf("config: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &Server{
		rest: exchange.NewRESTClient(cfg.Exchange.RESTBaseURL,
			exchange.WithTimeout(cfg.Exchange.Timeout),
			exchange.WithMaxRetries(cfg.Exchange.MaxRetries)),
		cache: cache.New(ctx, cache.Options{
			RedisAddr:     cfg.Cache.RedisAddr,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       cfg.Cache.RedisDB,
			Logger:        logger,
		}),
		reports: reporting.NewGenerator(),
		logger:  logger,
	}

	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
		srv.imports = pgstore.NewImportStore(pool)
		logger.Printf("imports persisted to postgres")
	} else {
		srv.imports = memory.NewImportStore()
		logger.Printf("imports kept in memory")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /api/v1/markets", srv.handleMarkets)
	mux.HandleFunc("GET /api/v1/account", srv.handleAccount)
	mux.HandleFunc("GET /api/v1/account/{index}/analytics", srv.handleAccountAnalytics)
	mux.HandleFunc("POST /api/v1/imports", srv.handleImport)
	mux.HandleFunc("GET /api/v1/imports", srv.handleListImports)
	mux.HandleFunc("GET /api/v1/imports/{id}/analytics", srv.handleImportAnalytics)

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s", cfg.Server.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
	logger.Printf("shut down")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMarkets serves market stats from cache, refreshing stale entries in
// the background.
func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	var markets []*domain.MarketStats
	err := s.cache.CachedFetch(r.Context(), "markets", func(ctx context.Context) (interface{}, error) {
		return s.rest.OrderBooks(ctx)
	}, cache.FetchOptions{TTL: time.Minute, StaleWhileRevalidate: true}, &markets)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("fetch markets: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, markets)
}

// handleAccount resolves an address and serves the account snapshot.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, errors.New("address query parameter is required"))
		return
	}

	var acct exchange.Account
	err := s.cache.CachedFetch(r.Context(), "account:"+address, func(ctx context.Context) (interface{}, error) {
		return s.rest.AccountByAddress(ctx, address)
	}, cache.FetchOptions{TTL: time.Hour}, &acct)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("resolve account: %w", err))
		return
	}

	snap, err := s.snapshot(r.Context(), acct.AccountIndex)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("fetch snapshot: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account":   acct,
		"positions": snap.Positions,
		"trades":    snap.Trades,
		"stats":     snap.Stats,
	})
}

// handleAccountAnalytics runs the analytics suite over an account's live
// trade history.
func (s *Server) handleAccountAnalytics(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(r.PathValue("index"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("account index must be an integer"))
		return
	}

	snap, err := s.snapshot(r.Context(), index)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("fetch snapshot: %w", err))
		return
	}

	report := s.reports.Generate(snap.Trades, fmt.Sprintf("account %d", index), "live", 0)
	writeJSON(w, http.StatusOK, report)
}

// snapshot reads the account snapshot through the cache with stale fallback.
func (s *Server) snapshot(ctx context.Context, index int64) (*exchange.Snapshot, error) {
	var snap exchange.Snapshot
	key := "snapshot:" + strconv.FormatInt(index, 10)
	err := s.cache.CachedFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return s.rest.AccountSnapshot(ctx, index)
	}, cache.FetchOptions{TTL: time.Minute, StaleWhileRevalidate: true}, &snap)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// handleImport ingests an uploaded CSV and persists it as a batch.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := importer.Import(r.Body)
	if err != nil {
		if errors.Is(err, importer.ErrUnrecognizedFormat) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("import csv: %w", err))
		return
	}

	batch := res.Batch(uuid.NewString(), r.URL.Query().Get("name"), time.Now().UnixMilli())
	if err := s.imports.InsertBatch(r.Context(), batch, res.Trades); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("persist batch: %w", err))
		return
	}

	s.logger.Printf("imported batch %s: profile=%s trades=%d dropped=%d",
		batch.ID, batch.Profile, batch.TradeCount, batch.Dropped)
	writeJSON(w, http.StatusCreated, batch)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	batches, err := s.imports.ListBatches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

// handleImportAnalytics runs the analytics suite over one persisted batch.
func (s *Server) handleImportAnalytics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	batch, err := s.imports.GetBatch(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("batch %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	trades, err := s.imports.TradesByBatch(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	report := s.reports.Generate(trades, batch.FileName, batch.Profile, batch.Dropped)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
