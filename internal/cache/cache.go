// Package cache provides the session-lifetime read-through cache used by the
// timesheet accessors. Entries carry an individual TTL and are evicted
// lazily: an expired entry is deleted the first time a Get finds it stale.
// There is no background sweep.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is the freshness window applied when Set is called through
// SetDefault.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a key-value store with per-entry expiry. One instance is
// constructed per session and injected into the accessors; there is no
// package-level state.
type Cache struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]entry
}

// New returns an empty Cache reading time from the given clock.
// Pass clockwork.NewRealClock() outside of tests.
func New(clock clockwork.Clock) *Cache {
	return &Cache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key if it is still fresh. A stale
// entry is deleted on the way out and reported as a miss; a later Get for
// the same key cannot resurrect it.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.storedAt.Add(e.ttl)) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL, unconditionally replacing
// any existing entry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.clock.Now(), ttl: ttl}
}

// SetDefault stores value under key with DefaultTTL.
func (c *Cache) SetDefault(key string, value any) {
	c.Set(key, value, DefaultTTL)
}

// Invalidate removes one entry. Removing an absent key is a no-op, never an
// error.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry. Used on logout and on explicit
// refresh-everything actions.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of entries currently held, including entries that
// have expired but not yet been swept by a Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
