// Package cache implements the TTL cache that sits between the API handlers
// and the upstream data source. It decides, per key, whether a stored value
// is still fresh enough to serve or whether the caller-supplied fetch has to
// run again.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pjb98/nfl-backend/pkg/logger"
	"github.com/pjb98/nfl-backend/pkg/metrics"
)

// DefaultTTL is how long an entry is served without re-fetching.
const DefaultTTL = 300 * time.Second

// FetchFunc retrieves fresh data for a key. It runs without any cache lock
// held and may block on network I/O.
type FetchFunc func() (interface{}, error)

type entry struct {
	value    interface{}
	storedAt time.Time
}

// Cache is an in-memory map of key -> {value, storedAt} with a single
// process-wide TTL. Entries are never deleted or swept: an expired entry
// stays in place until a successful fetch overwrites it, so the key set only
// grows with the number of distinct keys ever requested.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	sf      *singleflight.Group

	now func() time.Time
}

// Options configures a Cache.
type Options struct {
	// TTL is the validity window for entries. Zero or negative means
	// DefaultTTL.
	TTL time.Duration
	// DedupeFetches collapses concurrent fetches for the same key into a
	// single upstream call shared by all waiters. When false, concurrent
	// callers for an expired key may each fetch and the last writer wins.
	DedupeFetches bool
}

// New returns an empty cache.
func New(opts Options) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
	if opts.DedupeFetches {
		c.sf = &singleflight.Group{}
	}
	return c
}

// GetOrFetch returns the cached value for key if it is younger than the TTL,
// and otherwise calls fetch. A successful fetch overwrites the entry
// wholesale with the current time as its stored-at timestamp. A failed fetch
// propagates the error unchanged and leaves whatever entry was present, even
// an expired one, exactly as it was.
func (c *Cache) GetOrFetch(key string, fetch FetchFunc) (interface{}, error) {
	if v, ok := c.lookup(key); ok {
		logger.Debug("using cached data for ", key)
		metrics.CacheHits.Inc()
		return v, nil
	}

	if c.sf == nil {
		metrics.CacheMisses.Inc()
		return c.fetchAndStore(key, fetch)
	}

	res, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// A fetch that finished while this caller was queued behind the
		// in-flight one already refreshed the entry.
		if v, ok := c.lookup(key); ok {
			return flightResult{value: v, cached: true}, nil
		}
		v, err := c.fetchAndStore(key, fetch)
		if err != nil {
			return flightResult{}, err
		}
		return flightResult{value: v, cached: false}, nil
	})
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, err
	}

	// Hit or miss is only known once the flight resolves: a caller queued
	// behind an in-flight fetch may have been served by the freshness
	// re-check rather than by the fetch itself.
	fr := res.(flightResult)
	if fr.cached {
		logger.Debug("using cached data for ", key)
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}
	return fr.value, nil
}

// flightResult carries a dedup flight's outcome plus whether it was served
// by the re-check instead of an upstream fetch.
type flightResult struct {
	value  interface{}
	cached bool
}

// Size reports the number of distinct keys held, fresh or stale.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	// Strictly less than: an entry exactly TTL old is already expired.
	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// fetchAndStore runs fetch without holding the lock so slow upstream calls
// don't serialize traffic on unrelated keys.
func (c *Cache) fetchAndStore(key string, fetch FetchFunc) (interface{}, error) {
	logger.Debug("fetching fresh data for ", key)
	v, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{value: v, storedAt: c.now()}
	c.mu.Unlock()

	return v, nil
}
