package lifecycle

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cakeauth/cakeauth-go/pkg/slogx"
	"github.com/cakeauth/cakeauth-go/pkg/storage"
)

// CacheTTL is how long a cached read stays fresh. Deliberately just under
// a minute so a value never outlives two refresh ticks.
const CacheTTL = 59 * time.Second

// FetchFunc produces a fresh value for a Cache.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// CacheConfig configures a Cache.
type CacheConfig struct {
	// Key names the cache, and its snapshot entry in Store.
	Key string

	// TTL overrides CacheTTL when positive.
	TTL time.Duration

	// Store optionally persists snapshots across restarts. Stale
	// snapshots are discarded on rehydrate.
	Store storage.Store

	// Logger receives snapshot errors. Silent when nil.
	Logger *slog.Logger
}

type snapshot[T any] struct {
	Value     T     `json:"value"`
	Timestamp int64 `json:"timestamp"`
}

// Cache is a single-value read-through cache. A fresh value is served
// without a fetch; at most one fetch is in flight at a time, with
// concurrent readers waiting on it rather than duplicating it. A failed
// fetch keeps the previous value available but marks the cache errored
// until a later fetch succeeds.
type Cache[T any] struct {
	key    string
	ttl    time.Duration
	store  storage.Store
	logger *slog.Logger
	fetch  FetchFunc[T]

	mu        sync.Mutex
	value     *T
	fetchedAt time.Time
	err       error
	inflight  chan struct{}

	now func() time.Time
}

// NewCache builds a cache around fetch, rehydrating any persisted
// snapshot that is still fresh.
func NewCache[T any](cfg CacheConfig, fetch FetchFunc[T]) *Cache[T] {
	c := &Cache[T]{
		key:    cfg.Key,
		ttl:    cfg.TTL,
		store:  cfg.Store,
		logger: cfg.Logger,
		fetch:  fetch,
		now:    time.Now,
	}
	if c.ttl <= 0 {
		c.ttl = CacheTTL
	}
	if c.logger == nil {
		c.logger = slogx.Nop()
	}
	c.rehydrate()
	return c
}

func (c *Cache[T]) rehydrate() {
	if c.store == nil {
		return
	}

	raw, ok, err := c.store.Get(context.Background(), c.key)
	if err != nil || !ok {
		return
	}

	var snap snapshot[T]
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("discarding unreadable cache snapshot", "key", c.key, "error", err)
		return
	}

	fetchedAt := time.UnixMilli(snap.Timestamp)
	if c.now().Sub(fetchedAt) >= c.ttl {
		return
	}

	c.value = &snap.Value
	c.fetchedAt = fetchedAt
}

// Get returns the cached value, fetching when it is missing, stale, or
// the last fetch failed. When the fetch fails and a previous value
// exists, both are returned: the stale value and the error.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()

	if c.value != nil && c.err == nil && c.now().Sub(c.fetchedAt) < c.ttl {
		v := *c.value
		c.mu.Unlock()
		return v, nil
	}

	// Someone else is already fetching; wait for their result.
	if c.inflight != nil {
		done := c.inflight
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.value != nil {
			return *c.value, c.err
		}
		var zero T
		return zero, c.err
	}

	done := make(chan struct{})
	c.inflight = done
	c.mu.Unlock()

	value, err := c.fetch(ctx)

	c.mu.Lock()
	defer func() {
		c.inflight = nil
		close(done)
		c.mu.Unlock()
	}()

	c.fetchedAt = c.now()
	c.err = err
	if err == nil {
		c.value = &value
		c.persist(value)
		return value, nil
	}

	// Keep serving the stale value until a fetch succeeds.
	if c.value != nil {
		return *c.value, err
	}
	var zero T
	return zero, err
}

func (c *Cache[T]) persist(value T) {
	if c.store == nil {
		return
	}

	raw, err := json.Marshal(snapshot[T]{Value: value, Timestamp: c.fetchedAt.UnixMilli()})
	if err != nil {
		c.logger.Warn("failed to encode cache snapshot", "key", c.key, "error", err)
		return
	}
	if err := c.store.Set(context.Background(), c.key, raw, c.fetchedAt.Add(c.ttl)); err != nil {
		c.logger.Warn("failed to persist cache snapshot", "key", c.key, "error", err)
	}
}

// Value returns the cached value without fetching.
func (c *Cache[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == nil {
		var zero T
		return zero, false
	}
	return *c.value, true
}

// State reports the cache's condition: loading while a fetch is in
// flight, error after a failed fetch, idle otherwise.
func (c *Cache[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.inflight != nil:
		return StateLoading
	case c.err != nil:
		return StateError
	default:
		return StateIdle
	}
}

// Clear drops the cached value and its persisted snapshot.
func (c *Cache[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.value = nil
	c.fetchedAt = time.Time{}
	c.err = nil
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Delete(ctx, c.key)
}
