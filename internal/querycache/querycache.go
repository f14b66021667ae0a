// Package querycache caches the results of named, parameterized fetches.
//
// Entries are removed only by explicit invalidation of their exact key (or by
// the optional TTL). There is no background refresh: the next Fetch after an
// invalidation runs the fetch function again.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"orgadmin/internal/metrics"
)

// Key identifies a query: its name followed by its parameters.
type Key []string

func NewKey(name string, params ...string) Key {
	return append(Key{name}, params...)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// Name is the query name without parameters, used as a metrics label.
func (k Key) Name() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

type Cache struct {
	items *ttlcache.Cache[string, any]
	ttl   time.Duration
	group singleflight.Group

	mu         sync.Mutex
	loading    map[string]int
	generation map[string]uint64
}

// New creates a cache. A TTL of zero keeps entries until invalidated.
func New(ttl time.Duration) *Cache {
	opts := []ttlcache.Option[string, any]{
		ttlcache.WithDisableTouchOnHit[string, any](),
	}
	if ttl > 0 {
		opts = append(opts, ttlcache.WithTTL[string, any](ttl))
	}

	return &Cache{
		items:      ttlcache.New(opts...),
		ttl:        ttl,
		loading:    make(map[string]int),
		generation: make(map[string]uint64),
	}
}

// Start runs expired entry cleanup until Stop is called. It blocks, so
// callers run it in its own goroutine.
func (c *Cache) Start() {
	c.items.Start()
}

func (c *Cache) Stop() {
	c.items.Stop()
}

// Invalidate drops exactly the given keys. A fetch already in flight for one
// of them still returns to its callers but its result is not stored.
func (c *Cache) Invalidate(keys ...Key) {
	for _, key := range keys {
		k := key.String()

		c.mu.Lock()
		c.generation[k]++
		c.mu.Unlock()

		c.group.Forget(k)
		c.items.Delete(k)
		metrics.CacheInvalidationsTotal.WithLabelValues(key.Name()).Inc()
	}
}

// Loading reports whether a fetch for key is in flight.
func (c *Cache) Loading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[key.String()] > 0
}

// Cached reports whether key currently holds a result.
func (c *Cache) Cached(key Key) bool {
	return c.items.Has(key.String())
}

func (c *Cache) startLoading(k string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[k]++
	return c.generation[k]
}

func (c *Cache) finishLoading(k string, gen uint64, value any, store bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading[k]--
	if c.loading[k] <= 0 {
		delete(c.loading, k)
	}

	if store && c.generation[k] == gen {
		ttl := ttlcache.DefaultTTL
		if c.ttl <= 0 {
			ttl = ttlcache.NoTTL
		}
		c.items.Set(k, value, ttl)
	}
}

// Fetch returns the cached result for key, or runs fn and caches its result.
// Concurrent fetches of the same key share one fn call. Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if item := c.items.Get(k); item != nil {
		if v, ok := item.Value().(T); ok {
			metrics.CacheHitsTotal.WithLabelValues(key.Name()).Inc()
			return v, nil
		}
		c.items.Delete(k)
	}
	metrics.CacheMissesTotal.WithLabelValues(key.Name()).Inc()

	// The shared fetch must not be cut short by whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		gen := c.startLoading(k)
		v, err := fn(fetchCtx)
		c.finishLoading(k, gen, v, err == nil)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("querycache.Fetch: %s: %w", k, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("querycache.Fetch: %s: cached value has type %T", k, res.Val)
		}
		return v, nil
	}
}
