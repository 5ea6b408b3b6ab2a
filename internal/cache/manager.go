// Package cache implements the TTL cache behind live exchange reads: a
// namespaced key-value layer with stale-while-revalidate semantics, backed
// by Redis when available and an in-process map when not.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies to CachedFetch when no TTL is given.
const DefaultTTL = 5 * time.Minute

// namespace prefixes every key so pattern invalidation can never touch
// unrelated data in a shared backend.
const namespace = "lens:"

// Entry is the stored envelope around cached data.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix ms at creation
	ExpiresAt int64           `json:"expiresAt"` // unix ms
}

// Manager is the cache facade. Construct one per process with New and pass
// it explicitly to whichever component needs it; there is no package-level
// singleton.
type Manager struct {
	store  Store
	logger *log.Logger
	now    func() time.Time

	// inflight tracks one background refresh per key. Concurrent stale
	// readers find the key here and do not spawn another fetch.
	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// Options configures Manager construction.
type Options struct {
	// RedisAddr enables the persistent backend when non-empty. If the
	// write/delete probe fails the manager silently degrades to memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Logger        *log.Logger
}

// New constructs a Manager, choosing the storage backend once: Redis if the
// probe round-trips, otherwise in-process memory for the rest of the
// process lifetime.
func New(ctx context.Context, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var store Store = newMemoryStore()
	if opts.RedisAddr != "" {
		rs := newRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err := rs.probe(ctx); err != nil {
			logger.Printf("[cache] redis probe failed, using memory store: %v", err)
		} else {
			store = rs
		}
	}

	return &Manager{
		store:    store,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// Set serializes the value into an Entry expiring after ttl and stores it
// under the namespaced key. A zero ttl produces an already-expired entry,
// observable only through stale reads. Storage errors degrade to a logged
// no-op.
func (m *Manager) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	raw, err := json.Marshal(data)
	if err != nil {
		m.logger.Printf("[cache] marshal %s: %v", key, err)
		return
	}
	now := m.now()
	entry, err := json.Marshal(Entry{
		Data:      raw,
		Timestamp: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	})
	if err != nil {
		m.logger.Printf("[cache] marshal entry %s: %v", key, err)
		return
	}
	if err := m.store.Set(ctx, namespace+key, string(entry)); err != nil {
		m.logger.Printf("[cache] set %s: %v", key, err)
	}
}

// Get deserializes into out and reports whether a usable value was found.
// Absent or corrupt entries are misses (corrupt ones are evicted). An
// expired entry is evicted and missed unless staleOK, in which case the
// stale payload is returned without eviction so later callers can still
// observe it; the caller owns triggering revalidation.
func (m *Manager) Get(ctx context.Context, key string, staleOK bool, out interface{}) bool {
	entry, state := m.load(ctx, key)
	switch state {
	case entryFresh:
	case entryStale:
		if !staleOK {
			m.Invalidate(ctx, key)
			return false
		}
	default:
		return false
	}

	if err := json.Unmarshal(entry.Data, out); err != nil {
		m.logger.Printf("[cache] decode %s: %v", key, err)
		m.Invalidate(ctx, key)
		return false
	}
	return true
}

// Has reports whether a fresh, parseable entry exists. Expired entries it
// encounters are evicted as a side effect.
func (m *Manager) Has(ctx context.Context, key string) bool {
	_, state := m.load(ctx, key)
	if state == entryStale {
		m.Invalidate(ctx, key)
		return false
	}
	return state == entryFresh
}

// Invalidate removes one key.
func (m *Manager) Invalidate(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, namespace+key); err != nil {
		m.logger.Printf("[cache] delete %s: %v", key, err)
	}
}

// InvalidatePattern removes every namespaced key whose un-namespaced form
// matches the pattern. Keys outside the namespace are never touched.
func (m *Manager) InvalidatePattern(ctx context.Context, pattern *regexp.Regexp) {
	keys, err := m.store.Keys(ctx, namespace)
	if err != nil {
		m.logger.Printf("[cache] scan: %v", err)
		return
	}
	for _, k := range keys {
		if pattern.MatchString(strings.TrimPrefix(k, namespace)) {
			if err := m.store.Delete(ctx, k); err != nil {
				m.logger.Printf("[cache] delete %s: %v", k, err)
			}
		}
	}
}

// Clear removes every key in the namespace.
func (m *Manager) Clear(ctx context.Context) {
	m.InvalidatePattern(ctx, regexp.MustCompile(""))
}

// FetchOptions configures CachedFetch.
type FetchOptions struct {
	TTL                  time.Duration // zero means DefaultTTL
	StaleWhileRevalidate bool
}

// Fetcher produces a fresh value for a key.
type Fetcher func(ctx context.Context) (interface{}, error)

// CachedFetch is the read-through path. Fresh hit: cached value. Stale hit
// with StaleWhileRevalidate: the stale value now, plus at most one
// background refresh per key (refresh failures are logged, never surfaced).
// Miss, or stale without SWR: fetch, store, return.
func (m *Manager) CachedFetch(ctx context.Context, key string, fetcher Fetcher, opts FetchOptions, out interface{}) error {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	entry, state := m.load(ctx, key)

	if state == entryFresh {
		return json.Unmarshal(entry.Data, out)
	}

	if state == entryStale && opts.StaleWhileRevalidate {
		if err := json.Unmarshal(entry.Data, out); err == nil {
			m.revalidate(key, fetcher, ttl)
			return nil
		}
		// Corrupt stale payload: treat as a miss.
		m.Invalidate(ctx, key)
	}

	value, err := fetcher(ctx)
	if err != nil {
		return err
	}
	m.Set(ctx, key, value, ttl)
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// revalidate fires one background refresh for the key unless one is
// already in flight.
func (m *Manager) revalidate(key string, fetcher Fetcher, ttl time.Duration) {
	m.inflightMu.Lock()
	if _, busy := m.inflight[key]; busy {
		m.inflightMu.Unlock()
		return
	}
	m.inflight[key] = struct{}{}
	m.inflightMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		defer func() {
			m.inflightMu.Lock()
			delete(m.inflight, key)
			m.inflightMu.Unlock()
		}()

		value, err := fetcher(ctx)
		if err != nil {
			m.logger.Printf("[cache] background refresh %s: %v", key, err)
			return
		}
		m.Set(ctx, key, value, ttl)
	}()
}

type entryState int

const (
	entryMiss entryState = iota
	entryFresh
	entryStale
)

// load fetches and classifies an entry. Corrupt entries are evicted and
// reported as misses; storage errors degrade to misses.
func (m *Manager) load(ctx context.Context, key string) (Entry, entryState) {
	raw, found, err := m.store.Get(ctx, namespace+key)
	if err != nil {
		m.logger.Printf("[cache] get %s: %v", key, err)
		return Entry{}, entryMiss
	}
	if !found {
		return Entry{}, entryMiss
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		m.logger.Printf("[cache] corrupt entry %s: %v", key, err)
		m.Invalidate(ctx, key)
		return Entry{}, entryMiss
	}

	if m.now().UnixMilli() >= entry.ExpiresAt {
		return entry, entryStale
	}
	return entry, entryFresh
}
