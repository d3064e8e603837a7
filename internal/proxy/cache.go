package proxy

import (
	"sync"
	"time"
)

// CachedResponse is a stored upstream reply.
type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
	ExpiresAt   time.Time
}

// ResponseCache is an in-memory TTL cache keyed by method+path. Expired
// entries are dropped lazily on read and in bulk via Prune.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]CachedResponse

	// now is replaceable for expiry tests.
	now func() time.Time
}

// NewResponseCache creates an empty response cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]CachedResponse),
		now:     time.Now,
	}
}

// Key builds the cache key for a request.
func Key(method, path string) string {
	return method + ":" + path
}

// Get returns the cached response for the key, dropping it when expired.
func (c *ResponseCache) Get(key string) (CachedResponse, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return CachedResponse{}, false
	}
	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if current, ok := c.entries[key]; ok && c.now().After(current.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return CachedResponse{}, false
	}
	return entry, true
}

// Set stores a response under the key for the given TTL.
func (c *ResponseCache) Set(key string, resp CachedResponse, ttl time.Duration) {
	resp.ExpiresAt = c.now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

// Size returns the number of entries, expired ones included.
func (c *ResponseCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune removes all expired entries and reports how many were dropped.
func (c *ResponseCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := c.now()
	for key, entry := range c.entries {
		if cutoff.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CachedResponse)
}
