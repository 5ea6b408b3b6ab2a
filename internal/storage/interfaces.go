package storage

import (
	"context"

	"lighter-lens/internal/domain"
)

// ImportStore persists CSV import batches and their trades.
type ImportStore interface {
	// InsertBatch adds a batch together with its trades atomically.
	// Returns ErrDuplicateKey if the batch id exists, ErrInvalidInput
	// if the batch has no id.
	InsertBatch(ctx context.Context, batch *domain.ImportBatch, trades []*domain.Trade) error

	// GetBatch retrieves a batch by id. Returns ErrNotFound if not exists.
	GetBatch(ctx context.Context, id string) (*domain.ImportBatch, error)

	// ListBatches retrieves all batches ordered by created_at DESC.
	ListBatches(ctx context.Context) ([]*domain.ImportBatch, error)

	// TradesByBatch retrieves a batch's trades ordered by date ASC.
	// Returns ErrNotFound if the batch does not exist.
	TradesByBatch(ctx context.Context, batchID string) ([]*domain.Trade, error)

	// AllTrades retrieves every persisted trade ordered by date ASC.
	AllTrades(ctx context.Context) ([]*domain.Trade, error)

	// DeleteBatch removes a batch and its trades. Returns ErrNotFound
	// if the batch does not exist.
	DeleteBatch(ctx context.Context, id string) error
}

// TradeArchiveStore is the long-range trade archive used for aggregate
// queries over large histories.
type TradeArchiveStore interface {
	// InsertTrades appends trades to the archive.
	InsertTrades(ctx context.Context, trades []*domain.Trade) error

	// MarketAggregates computes per-market rollups over [startMs, endMs]
	// (inclusive), ordered by net PnL DESC.
	MarketAggregates(ctx context.Context, startMs, endMs int64) ([]*domain.MarketAggregate, error)
}
