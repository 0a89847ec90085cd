package ai

import (
	"sort"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL is how long a cached response stays valid.
	DefaultCacheTTL = time.Hour

	// DefaultCacheMaxEntries bounds the cache size. When exceeded, the
	// oldest fifth of the entries is evicted.
	DefaultCacheMaxEntries = 200

	// DefaultPerMinuteLimit is the request budget per rolling minute.
	DefaultPerMinuteLimit = 10

	// DefaultPerDayLimit is the request budget per rolling day.
	DefaultPerDayLimit = 1500
)

type cacheEntry struct {
	value    string
	storedAt time.Time
}

// ResponseCache is a TTL-bounded, size-bounded cache for generated text.
// It is safe for concurrent use. Construct it explicitly and inject it
// where needed; there is no package-global instance.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewResponseCache creates a cache with the given TTL and size bound.
// Non-positive arguments fall back to the package defaults.
func NewResponseCache(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &ResponseCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Put stores a value, evicting the oldest 20% of entries when the cache
// is full.
func (c *ResponseCache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

// Len returns the number of entries currently held, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset discards all entries.
func (c *ResponseCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// evictOldest removes the oldest fifth of entries. Caller holds the lock.
func (c *ResponseCache) evictOldest() {
	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, storedAt: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].storedAt.Before(all[j].storedAt)
	})

	evict := len(all) / 5
	if evict < 1 {
		evict = 1
	}
	for _, e := range all[:evict] {
		delete(c.entries, e.key)
	}
}

// RateLimiter enforces per-minute and per-day request budgets over
// rolling windows. It is safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	perMinute int
	perDay    int
	requests  []time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter with the given budgets. Non-positive
// arguments fall back to the package defaults.
func NewRateLimiter(perMinute, perDay int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinuteLimit
	}
	if perDay <= 0 {
		perDay = DefaultPerDayLimit
	}
	return &RateLimiter{
		perMinute: perMinute,
		perDay:    perDay,
		now:       time.Now,
	}
}

// Allow records a request attempt and reports whether it fits within
// both budgets. A denied attempt is not recorded.
func (l *RateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	minuteAgo := now.Add(-time.Minute)
	inLastMinute := 0
	for _, t := range l.requests {
		if t.After(minuteAgo) {
			inLastMinute++
		}
	}
	if inLastMinute >= l.perMinute || len(l.requests) >= l.perDay {
		return false
	}

	l.requests = append(l.requests, now)
	return true
}

// Reset clears all recorded requests.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = nil
}

// prune drops requests older than a day. Caller holds the lock.
func (l *RateLimiter) prune(now time.Time) {
	dayAgo := now.Add(-24 * time.Hour)
	kept := l.requests[:0]
	for _, t := range l.requests {
		if t.After(dayAgo) {
			kept = append(kept, t)
		}
	}
	l.requests = kept
}
