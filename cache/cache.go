// Package cache keeps recently resolved vehicle media in memory. It is off
// unless a request asks for it: every resolution otherwise re-probes the
// dealer site.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/dealermedia/models"
)

// entry holds a cached result with its creation timestamp.
type entry struct {
	result    *models.MediaResult
	createdAt time.Time
}

// Cache is a simple in-memory cache for resolved media.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	retention  time.Duration
	now        func() time.Time
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older than
// retention (1 hour when retention <= 0).
func New(maxEntries int, retention time.Duration) *Cache {
	c := newCache(maxEntries, retention)
	go c.cleanupLoop()
	return c
}

func newCache(maxEntries int, retention time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	if retention <= 0 {
		retention = time.Hour
	}
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		retention:  retention,
		now:        time.Now,
	}
}

// Key generates a cache key from the locator fields. Matching is
// case-insensitive, so vinLast8 and stock are lower-cased.
func Key(req models.LocatorRequest) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(req.VinLast8))))
	h.Write([]byte("|"))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(req.Stock))))
	h.Write([]byte("|"))
	h.Write([]byte(strings.TrimSpace(req.DirectURL)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached result if it exists and is younger than maxAge.
// If maxAge <= 0, no cache lookup is performed.
// Returns the result and whether it was a cache hit.
func (c *Cache) Get(key string, maxAge time.Duration) (*models.MediaResult, bool) {
	if maxAge <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}
	return e.result, true
}

// Set stores a result in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, result *models.MediaResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		result:    result,
		createdAt: c.now(),
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// cleanupLoop evicts expired entries every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.evictExpired()
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.retention)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
