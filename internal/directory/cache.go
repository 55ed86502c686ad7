package directory

import (
	"strings"
	"sync"
	"time"

	"github.com/stagefind/stagefind/internal/resolve"
)

// defaultTTL is how long a directory lookup stays cached.
const defaultTTL = 24 * time.Hour

// Cache holds directory lookup results with a TTL. Negative results are
// cached too, so repeated misses for the same marketing title do not keep
// hitting the directory.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*resolve.Play
	cachedAt map[string]time.Time
	ttl      time.Duration
}

// NewCache creates a cache with the default TTL.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]*resolve.Play),
		cachedAt: make(map[string]time.Time),
		ttl:      defaultTTL,
	}
}

// Get returns the cached play (possibly nil for a cached miss) and whether
// a live entry was present.
func (c *Cache) Get(kind, title string) (*resolve.Play, bool) {
	key := cacheKey(kind, title)
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.cachedAt[key]
	if !ok || time.Since(at) > c.ttl {
		delete(c.entries, key)
		delete(c.cachedAt, key)
		return nil, false
	}
	return c.entries[key], true
}

// Set stores a lookup result.
func (c *Cache) Set(kind, title string, play *resolve.Play) {
	key := cacheKey(kind, title)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = play
	c.cachedAt[key] = time.Now()
}

func cacheKey(kind, title string) string {
	return kind + "|" + strings.ToLower(strings.TrimSpace(title))
}
