package listview

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheConfig controls freshness. A zero Freshness means every read refetches.
type CacheConfig struct {
	Freshness time.Duration
	Now       func() time.Time
}

type entry struct {
	value  any
	names  []string
	stored time.Time
	epoch  uint64
	stale  bool
}

// Cache holds fetched results keyed by a stable string and labelled with tags.
// Entries are filled only through Load and are never removed by failures, so
// the last good value for a key stays available through Peek.
//
// Invalidate accepts either a tag or a key. A fetch that started before an
// invalidation of any of its names is stored stale, and is never shared with
// callers that arrive after the invalidation. A late result never replaces one
// fetched after a newer invalidation.
type Cache struct {
	mu        sync.Mutex
	freshness time.Duration
	now       func() time.Time
	entries   map[string]*entry
	epochs    map[string]uint64
	listeners map[int]func(string)
	nextID    int
	group     singleflight.Group
}

func NewCache(cfg CacheConfig) *Cache {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		freshness: cfg.Freshness,
		now:       now,
		entries:   make(map[string]*entry),
		epochs:    make(map[string]uint64),
		listeners: make(map[int]func(string)),
	}
}

// Load returns the fresh cached value for key, or calls fn and stores its result
// under key and tags. Concurrent loads of the same key share one call of fn.
// With force the freshness check is skipped.
func Load[V any](ctx context.Context, c *Cache, key string, tags []string, force bool, fn func(context.Context) (V, error)) (V, error) {
	names := append(slices.Clone(tags), key)

	c.mu.Lock()
	if !force {
		if e, ok := c.entries[key]; ok && c.fresh(e) {
			v, _ := e.value.(V)
			c.mu.Unlock()
			return v, nil
		}
	}
	epoch := c.epoch(names)
	c.mu.Unlock()

	flight := key + "#" + strconv.FormatUint(epoch, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		r, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, names, r, epoch)
		return r, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	out, _ := v.(V)
	return out, nil
}

// Peek returns the last value stored for key regardless of freshness.
func Peek[V any](c *Cache, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := e.value.(V)
	return v, ok
}

// Fresh reports whether key would be served without a fetch.
func (c *Cache) Fresh(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && c.fresh(e)
}

// Invalidate marks every entry carrying name (a tag or a key) stale and notifies listeners.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	c.epochs[name]++
	for _, e := range c.entries {
		if slices.Contains(e.names, name) {
			e.stale = true
		}
	}
	listeners := make([]func(string), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
}

// OnInvalidate registers fn to be called after each Invalidate and returns its cancel func.
func (c *Cache) OnInvalidate(fn func(name string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fresh(e *entry) bool {
	return !e.stale && c.now().Sub(e.stored) < c.freshness
}

// epoch sums the invalidation counters of names. It only grows.
func (c *Cache) epoch(names []string) uint64 {
	var sum uint64
	for _, n := range names {
		sum += c.epochs[n]
	}
	return sum
}

func (c *Cache) store(key string, names []string, value any, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.epoch > epoch {
		return
	}
	c.entries[key] = &entry{
		value:  value,
		names:  names,
		stored: c.now(),
		epoch:  epoch,
		stale:  c.epoch(names) != epoch,
	}
}
