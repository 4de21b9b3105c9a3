// Package cache keeps generated stylesheets per scope key with a fixed TTL
// and explicit invalidation.
//
// Concurrent misses on the same key may run the producer more than once,
// generation is a pure function of the stored rule sets so duplicate work
// never yields different output. A result produced while an invalidation
// happened is returned to its caller but not stored.
package cache

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// All invalidates every entry.
const All = "all"

// DefaultTTL is the lifetime of a cached artifact.
const DefaultTTL = time.Hour

// Artifact is one generated stylesheet.
type Artifact struct {
	Key         string
	CSS         string
	GeneratedAt time.Time
}

// PageKey returns the cache key for rendering a page, 0 is used for
// requests without a page (site rules only).
func PageKey(pageID int64) string {
	return "page:" + strconv.FormatInt(pageID, 10)
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL, non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Artifact
	// invalidation counters, see GetOrGenerate
	epoch     uint64
	keyEpochs map[string]uint64

	ttl time.Duration
	now func() time.Time
	log *zap.Logger
}

// New creates an empty cache.
func New(log *zap.Logger, opts ...Option) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{
		entries:   make(map[string]Artifact),
		keyEpochs: make(map[string]uint64),
		ttl:       DefaultTTL,
		now:       time.Now,
		log:       log.Named("css-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns configured artifact lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns a fresh artifact for key. Expired entries are evicted.
func (c *Cache) Get(key string) (Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *Cache) get(key string) (Artifact, bool) {
	a, ok := c.entries[key]
	if !ok {
		return Artifact{}, false
	}
	if c.now().Sub(a.GeneratedAt) >= c.ttl {
		delete(c.entries, key)
		c.log.Debug("Cache entry expired", zap.String("key", key))
		return Artifact{}, false
	}
	return a, true
}

// GetOrGenerate returns cached CSS for key or calls producer and stores its
// result.
func (c *Cache) GetOrGenerate(key string, producer func() string) string {
	out, _ := c.GetOrTry(key, func() (string, error) { return producer(), nil })
	return out
}

// GetOrTry is GetOrGenerate for producers which may fail. Failed results
// are returned but never stored.
func (c *Cache) GetOrTry(key string, producer func() (string, error)) (string, error) {
	c.mu.Lock()
	if a, ok := c.get(key); ok {
		c.mu.Unlock()
		c.log.Debug("Cache hit", zap.String("key", key))
		return a.CSS, nil
	}
	epoch, keyEpoch := c.epoch, c.keyEpochs[key]
	c.mu.Unlock()

	c.log.Debug("Cache miss", zap.String("key", key))
	out, err := producer()
	if err != nil {
		return out, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.keyEpochs[key] != keyEpoch {
		c.log.Debug("Cache invalidated during generation, result not stored", zap.String("key", key))
		return out, nil
	}
	c.entries[key] = Artifact{Key: key, CSS: out, GeneratedAt: c.now()}
	return out, nil
}

// Invalidate drops the entry for key, or every entry when key is All.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == All {
		c.epoch++
		clear(c.entries)
		clear(c.keyEpochs)
		c.log.Debug("Cache cleared")
		return
	}
	c.keyEpochs[key]++
	delete(c.entries, key)
	c.log.Debug("Cache entry invalidated", zap.String("key", key))
}

// Len returns number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
