package mvt

import (
	"fmt"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TileCache holds decoded tiles in memory with LRU eviction, so repeated
// requests for the same tile key avoid re-decoding.
//
// Get is safe for concurrent use; the loader passed to a cache miss is
// called at most once per miss (concurrent misses for the same key are not
// deduplicated, matching a plain LRU's semantics).
type TileCache struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, *Tile]
	stats CacheStats
}

// NewTileCache returns a cache holding at most size tiles. Set to 0 for
// unlimited size (no eviction).
func NewTileCache(size int) (*TileCache, error) {
	if size <= 0 {
		size = math.MaxInt
	}
	c, err := lru.New[string, *Tile](size)
	if err != nil {
		return nil, fmt.Errorf("mvt: new tile cache: %w", err)
	}
	return &TileCache{lru: c}, nil
}

// Get returns the cached tile for key, or calls loader on a miss and caches
// the result.
func (c *TileCache) Get(key string, loader func() (*Tile, error)) (*Tile, error) {
	c.mu.Lock()
	if t, ok := c.lru.Get(key); ok {
		c.stats.Hits++
		c.mu.Unlock()
		return t, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	t, err := loader()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(key, t)
	c.mu.Unlock()
	return t, nil
}

// Remove evicts key, if present.
func (c *TileCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Purge removes every entry from the cache.
func (c *TileCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Stats reports cache hit/miss counters.
func (c *TileCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Len = c.lru.Len()
	return c.stats
}

// CacheStats holds cache performance counters.
type CacheStats struct {
	Hits   int
	Misses int
	Len    int
}
