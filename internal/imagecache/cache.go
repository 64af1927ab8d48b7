package imagecache

import (
	"os"
	"sync"
)

// Cache is a concurrency-safe cache of decoded photographs keyed by the
// requested path. An optional Index resolves references whose literal path
// does not exist on disk. Load failures are cached alongside successes.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *Image
	err error
}

// NewCache creates an image cache. index may be nil.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Get loads and caches the photograph referenced by path.
func (c *Cache) Get(path string) (*Image, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	c.mu.Unlock()

	return img, err
}

func (c *Cache) load(path string) (*Image, error) {
	resolved := path
	if _, err := os.Stat(resolved); err != nil && c.index != nil {
		if p, ok := c.index.ResolvePath(path); ok {
			resolved = p
		}
	}
	return Load(resolved)
}
