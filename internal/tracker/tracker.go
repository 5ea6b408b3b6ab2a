// Package tracker holds the live account state assembled from WebSocket
// updates. One tracker instance serves one account: updates are applied
// through Apply* methods one at a time, snapshot reads are cheap copies.
package tracker

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/normalize"
)

// DefaultPnLThrottle is the minimum spacing between recorded PnL points.
// Updates arriving inside the window replace the latest point instead of
// appending a new one.
const DefaultPnLThrottle = 30 * time.Second

// maxPnLPoints caps the in-memory history series.
const maxPnLPoints = 2880

// Tracker is the RWMutex-guarded live state for one account.
type Tracker struct {
	mu sync.RWMutex

	accountIndex int64
	positions    []*domain.Position
	trades       []*domain.Trade
	stats        *domain.UserStats
	markets      map[int64]*domain.MarketStats

	pnlHistory  []domain.PnLPoint
	pnlThrottle time.Duration

	logger *log.Logger
	now    func() time.Time
}

// New creates a tracker for the given account index.
func New(accountIndex int64, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		accountIndex: accountIndex,
		markets:      make(map[int64]*domain.MarketStats),
		pnlThrottle:  DefaultPnLThrottle,
		logger:       logger,
		now:          time.Now,
	}
}

// accountUpdate is the account channel payload shape. Position, trade and
// stats blocks are all optional per frame.
type accountUpdate struct {
	Positions json.RawMessage `json:"positions"`
	Trades    json.RawMessage `json:"trades"`
	Stats     json.RawMessage `json:"stats"`
}

// ApplyAccountUpdate folds one account channel frame into the state.
func (t *Tracker) ApplyAccountUpdate(payload json.RawMessage) {
	var upd accountUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		t.logger.Printf("[tracker] malformed account update: %v", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(upd.Positions) > 0 {
		incoming := normalize.Positions(upd.Positions)
		t.positions = normalize.MergePositions(t.positions, incoming)
	}

	if len(upd.Trades) > 0 {
		incoming := normalize.Trades(upd.Trades)
		t.trades = normalize.DedupeAndPrepend(t.trades, incoming)
	}

	if len(upd.Stats) > 0 {
		t.stats = normalize.UserStats(upd.Stats)
		t.recordPnLLocked(t.stats.AccountValue)
	}
}

// ApplyMarketStats upserts one market stats frame.
func (t *Tracker) ApplyMarketStats(payload json.RawMessage) {
	ms := normalize.MarketStats(payload)
	if ms == nil {
		return
	}

	t.mu.Lock()
	t.markets[ms.MarketID] = ms
	t.mu.Unlock()
}

// SeedSnapshot replaces the whole state from a REST snapshot. Used once at
// startup before the stream takes over.
func (t *Tracker) SeedSnapshot(positions []*domain.Position, trades []*domain.Trade, stats *domain.UserStats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.positions = normalize.MergePositions(nil, positions)
	t.trades = normalize.DedupeAndPrepend(nil, trades)
	if stats != nil {
		t.stats = stats
		t.recordPnLLocked(stats.AccountValue)
	}
}

// recordPnLLocked appends a PnL point, coalescing points inside the
// throttle window to the latest value. Caller holds t.mu.
func (t *Tracker) recordPnLLocked(value float64) {
	nowMs := t.now().UnixMilli()

	if n := len(t.pnlHistory); n > 0 {
		last := t.pnlHistory[n-1]
		if nowMs-last.Timestamp < t.pnlThrottle.Milliseconds() {
			t.pnlHistory[n-1] = domain.PnLPoint{Timestamp: nowMs, Value: value}
			return
		}
	}

	t.pnlHistory = append(t.pnlHistory, domain.PnLPoint{Timestamp: nowMs, Value: value})
	if len(t.pnlHistory) > maxPnLPoints {
		t.pnlHistory = t.pnlHistory[len(t.pnlHistory)-maxPnLPoints:]
	}
}

// AccountIndex returns the tracked account index.
func (t *Tracker) AccountIndex() int64 {
	return t.accountIndex
}

// Positions returns a copy of the open positions.
func (t *Tracker) Positions() []*domain.Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Position, len(t.positions))
	copy(out, t.positions)
	return out
}

// Trades returns a copy of the trade list, newest first.
func (t *Tracker) Trades() []*domain.Trade {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Trade, len(t.trades))
	copy(out, t.trades)
	return out
}

// Stats returns the latest account summary, or nil before the first update.
func (t *Tracker) Stats() *domain.UserStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.stats == nil {
		return nil
	}
	s := *t.stats
	return &s
}

// Market returns the latest stats for one market.
func (t *Tracker) Market(marketID int64) (*domain.MarketStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ms, ok := t.markets[marketID]
	if !ok {
		return nil, false
	}
	m := *ms
	return &m, true
}

// Markets returns a copy of all known market stats keyed by market id.
func (t *Tracker) Markets() map[int64]*domain.MarketStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[int64]*domain.MarketStats, len(t.markets))
	for id, ms := range t.markets {
		m := *ms
		out[id] = &m
	}
	return out
}

// PnLHistory returns a copy of the recorded PnL series, oldest first.
func (t *Tracker) PnLHistory() []domain.PnLPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.PnLPoint, len(t.pnlHistory))
	copy(out, t.pnlHistory)
	return out
}
