package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store is a TTL key/value cache of JSON-encoded values plus per-key
// generation counters. Cached entries are addressed through a generation,
// so bumping it retires every entry written under the old one, including a
// Set that lands after the bump.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, val any) error

	// Generation returns the counter under key, zero when it was never bumped.
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

// Cache is the in-process Store. Values are kept encoded so callers never
// share backing arrays with the cache.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry

	gens map[string]int64
}
type entry struct {
	val []byte
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),

		gens: make(map[string]int64),
	}
}

func (c *Cache) Get(_ context.Context, key string, out any) (bool, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.val, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(_ context.Context, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.m[key] = entry{val: b, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Generation(_ context.Context, key string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key], nil
}

func (c *Cache) Bump(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	return c.gens[key], nil
}
