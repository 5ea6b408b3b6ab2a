package clickhouse

import (
	"context"
	"fmt"
	"time"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/storage"
)

// TradeArchiveStore implements storage.TradeArchiveStore using ClickHouse.
type TradeArchiveStore struct {
	conn *Conn
}

// NewTradeArchiveStore creates a new TradeArchiveStore.
func NewTradeArchiveStore(conn *Conn) *TradeArchiveStore {
	return &TradeArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeArchiveStore = (*TradeArchiveStore)(nil)

// InsertTrades appends trades to the archive. Re-inserted trade ids are
// collapsed by ReplacingMergeTree, so the call is idempotent.
func (s *TradeArchiveStore) InsertTrades(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_archive (
			trade_id, date, market, side, size, price, closed_pnl, fee, role, type
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare archive batch: %w", err)
	}

	for _, t := range trades {
		if t.ID == "" {
			return storage.ErrInvalidInput
		}
		err := batch.Append(
			t.ID, t.Date.UTC(), t.Market, t.Side,
			t.Size, t.Price, t.ClosedPnL, t.Fee, t.Role, t.Type,
		)
		if err != nil {
			return fmt.Errorf("append trade to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send archive batch: %w", err)
	}
	return nil
}

// MarketAggregates computes per-market rollups over [startMs, endMs],
// ordered by net PnL DESC. FINAL deduplicates re-inserted trade ids.
func (s *TradeArchiveStore) MarketAggregates(ctx context.Context, startMs, endMs int64) ([]*domain.MarketAggregate, error) {
	query := `
		SELECT
			market,
			count() AS trades,
			sum(closed_pnl) AS net_pnl,
			sum(fee) AS total_fees,
			sum(abs(size) * price) AS volume
		FROM trade_archive FINAL
		WHERE date >= ? AND date <= ?
		GROUP BY market
		ORDER BY net_pnl DESC, market ASC
	`

	rows, err := s.conn.Query(ctx, query,
		time.UnixMilli(startMs).UTC(), time.UnixMilli(endMs).UTC())
	if err != nil {
		return nil, fmt.Errorf("query market aggregates: %w", err)
	}
	defer rows.Close()

	var out []*domain.MarketAggregate
	for rows.Next() {
		var a domain.MarketAggregate
		var trades uint64
		if err := rows.Scan(&a.Market, &trades, &a.NetPnL, &a.TotalFees, &a.Volume); err != nil {
			return nil, fmt.Errorf("scan market aggregate row: %w", err)
		}
		a.Trades = int64(trades)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market aggregate rows: %w", err)
	}
	return out, nil
}
