package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/storage"
)

// ImportStore implements storage.ImportStore using PostgreSQL.
type ImportStore struct {
	pool *Pool
}

// NewImportStore creates a new ImportStore.
func NewImportStore(pool *Pool) *ImportStore {
	return &ImportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ImportStore = (*ImportStore)(nil)

// InsertBatch adds a batch and its trades in one transaction. Returns
// ErrDuplicateKey if the batch id exists.
func (s *ImportStore) InsertBatch(ctx context.Context, batch *domain.ImportBatch, trades []*domain.Trade) error {
	if batch == nil || batch.ID == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO import_batches (id, profile, file_name, trade_count, dropped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, batch.ID, batch.Profile, batch.FileName, batch.TradeCount, batch.Dropped, batch.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert import batch: %w", err)
	}

	query := `
		INSERT INTO import_trades (
			id, batch_id, date, market, side, size, price, closed_pnl, fee, role, type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, t := range trades {
		_, err := tx.Exec(ctx, query,
			t.ID, batch.ID, t.Date.UTC(), t.Market, t.Side,
			t.Size, t.Price, t.ClosedPnL, t.Fee, t.Role, t.Type,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert import trade: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch by id. Returns ErrNotFound if not exists.
func (s *ImportStore) GetBatch(ctx context.Context, id string) (*domain.ImportBatch, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, profile, file_name, trade_count, dropped, created_at
		FROM import_batches
		WHERE id = $1
	`, id)

	b, err := scanBatch(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get import batch: %w", err)
	}
	return b, nil
}

// ListBatches retrieves all batches ordered by created_at DESC.
func (s *ImportStore) ListBatches(ctx context.Context) ([]*domain.ImportBatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, profile, file_name, trade_count, dropped, created_at
		FROM import_batches
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.ImportBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import batch row: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import batch rows: %w", err)
	}
	return batches, nil
}

// TradesByBatch retrieves a batch's trades ordered by date ASC.
func (s *ImportStore) TradesByBatch(ctx context.Context, batchID string) ([]*domain.Trade, error) {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, date, market, side, size, price, closed_pnl, fee, role, type
		FROM import_trades
		WHERE batch_id = $1
		ORDER BY date ASC, id ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("get trades by batch: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// AllTrades retrieves every persisted trade ordered by date ASC.
func (s *ImportStore) AllTrades(ctx context.Context) ([]*domain.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, market, side, size, price, closed_pnl, fee, role, type
		FROM import_trades
		ORDER BY date ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// DeleteBatch removes a batch and its trades. Trades cascade on delete.
func (s *ImportStore) DeleteBatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM import_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete import batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanBatch scans a single row into an ImportBatch.
func scanBatch(row pgx.Row) (*domain.ImportBatch, error) {
	var b domain.ImportBatch
	err := row.Scan(&b.ID, &b.Profile, &b.FileName, &b.TradeCount, &b.Dropped, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// scanTrades scans trade rows into a slice.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		var t domain.Trade
		var date time.Time

		err := rows.Scan(
			&t.ID, &date, &t.Market, &t.Side,
			&t.Size, &t.Price, &t.ClosedPnL, &t.Fee, &t.Role, &t.Type,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		t.Date = date.UTC()
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
