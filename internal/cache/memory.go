package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-memory layer, holding recently fetched responses for
// the lifetime of the process.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached response.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(Key(key)); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a response with the given TTL (0 uses the default).
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(Key(key), value, ttl)
	return nil
}

// Delete removes a cached response.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(Key(key))
	return nil
}

// Clear drops all cached responses.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
