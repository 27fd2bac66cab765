//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_cache.go -package=mocks
package cache

import (
	"sync"
	"time"
)

type ICache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Delete(key string)
	Clear()
}

type entry struct {
	value   string
	expires time.Time
}

// MemoryCache is a key/value store with per-entry TTL. Expiry is lazy:
// an expired entry is purged the next time Get touches it, there is no
// background eviction goroutine.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores a value. A ttl of zero or less means the entry never
// expires.
func (c *MemoryCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len is used by the debug endpoint and tests; expired entries that have
// not been touched yet still count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
