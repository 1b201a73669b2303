package tileset

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheStats reports texture cache usage.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// textureCache memoizes textures by tile cache key.
// Without a capacity it is append-only for the lifetime of its tileset;
// with one it evicts least recently used textures.
type textureCache struct {
	mu       sync.RWMutex
	textures map[string]*Texture

	bounded *lru.Cache[string, *Texture]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newTextureCache(capacity int) (*textureCache, error) {
	c := &textureCache{}
	if capacity > 0 {
		bounded, err := lru.New[string, *Texture](capacity)
		if err != nil {
			return nil, err
		}
		c.bounded = bounded
		return c, nil
	}
	c.textures = make(map[string]*Texture)
	return c, nil
}

func (c *textureCache) get(key string) (*Texture, bool) {
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.textures[key]
	return t, ok
}

func (c *textureCache) put(key string, t *Texture) {
	if c.bounded != nil {
		c.bounded.Add(key, t)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures[key] = t
}

// getOrCreate returns the cached texture for key, calling create on a miss.
// Failed creations are not cached.
func (c *textureCache) getOrCreate(key string, create func() (*Texture, error)) (*Texture, error) {
	if t, ok := c.get(key); ok {
		c.hits.Add(1)
		return t, nil
	}
	c.misses.Add(1)
	t, err := create()
	if err != nil {
		return nil, err
	}
	t.Key = key
	c.put(key, t)
	return t, nil
}

func (c *textureCache) len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

func (c *textureCache) stats() CacheStats {
	return CacheStats{
		Entries: c.len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
