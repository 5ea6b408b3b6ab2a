// Package memory provides in-memory storage implementations used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/storage"
)

// ImportStore is an in-memory implementation of storage.ImportStore.
type ImportStore struct {
	mu      sync.RWMutex
	batches map[string]*domain.ImportBatch // keyed by batch id
	trades  map[string][]*domain.Trade     // keyed by batch id
}

// NewImportStore creates a new in-memory import store.
func NewImportStore() *ImportStore {
	return &ImportStore{
		batches: make(map[string]*domain.ImportBatch),
		trades:  make(map[string][]*domain.Trade),
	}
}

// Compile-time interface check.
var _ storage.ImportStore = (*ImportStore)(nil)

// InsertBatch adds a batch and its trades. Returns ErrDuplicateKey if batch id exists.
func (s *ImportStore) InsertBatch(_ context.Context, batch *domain.ImportBatch, trades []*domain.Trade) error {
	if batch == nil || batch.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[batch.ID]; exists {
		return storage.ErrDuplicateKey
	}

	b := *batch
	s.batches[batch.ID] = &b

	stored := make([]*domain.Trade, len(trades))
	for i, t := range trades {
		c := *t
		stored[i] = &c
	}
	sortTradesAsc(stored)
	s.trades[batch.ID] = stored
	return nil
}

// GetBatch retrieves a batch by id. Returns ErrNotFound if not exists.
func (s *ImportStore) GetBatch(_ context.Context, id string) (*domain.ImportBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.batches[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	c := *b
	return &c, nil
}

// ListBatches retrieves all batches ordered by created_at DESC.
func (s *ImportStore) ListBatches(_ context.Context) ([]*domain.ImportBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ImportBatch, 0, len(s.batches))
	for _, b := range s.batches {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// TradesByBatch retrieves a batch's trades ordered by date ASC.
func (s *ImportStore) TradesByBatch(_ context.Context, batchID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades, exists := s.trades[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	out := make([]*domain.Trade, len(trades))
	for i, t := range trades {
		c := *t
		out[i] = &c
	}
	return out, nil
}

// AllTrades retrieves every persisted trade ordered by date ASC.
func (s *ImportStore) AllTrades(_ context.Context) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Trade
	for _, trades := range s.trades {
		for _, t := range trades {
			c := *t
			out = append(out, &c)
		}
	}
	sortTradesAsc(out)
	return out, nil
}

// DeleteBatch removes a batch and its trades.
func (s *ImportStore) DeleteBatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.batches, id)
	delete(s.trades, id)
	return nil
}

func sortTradesAsc(trades []*domain.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].Date.Equal(trades[j].Date) {
			return trades[i].Date.Before(trades[j].Date)
		}
		return trades[i].ID < trades[j].ID
	})
}
