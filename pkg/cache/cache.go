package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Option configures a Cache.
type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock overrides the time source. Tests use it to control expiry
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a bounded, time-expiring key/value store. Entries expire lazily
// on read (no background sweep), and insertion beyond the capacity bound
// evicts the oldest-inserted entries first.
//
// Each named cache owns its entries independently; callers create one
// Cache per resource type with its own TTL and capacity.
type Cache[V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry[V]
	order      []string // insertion order, oldest first
	now        func() time.Time
	group      singleflight.Group
}

// New creates a cache whose entries live for ttl. maxEntries bounds the
// entry count; a non-positive value means unbounded.
func New[V any](ttl time.Duration, maxEntries int, opts ...Option) *Cache[V] {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry[V]),
		now:        cfg.now,
	}
}

// Get returns the value for key. An expired entry is removed and reported
// as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.removeLocked(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL, then evicts the
// oldest-inserted entries if the cache exceeds its capacity. Re-setting an
// existing key refreshes its expiry but keeps its insertion slot.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}

	if c.maxEntries <= 0 {
		return
	}
	for len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// GetOrLoad returns the cached value for key, or runs loader to fetch and
// cache it. Concurrent loads for the same key are collapsed into one
// loader call whose result is shared.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, loader func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Recheck: another flight may have populated the key between the
		// miss and this call.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate removes key if present. Write paths call this so the next
// read refetches.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	c.order = nil
}

// Len returns the number of stored entries, including any not yet lazily
// expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
