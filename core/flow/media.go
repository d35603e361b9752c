package flow

import "sync"

// MediaCache memoizes remote file IDs issued for local asset paths so the same
// asset is uploaded at most once per process. Concurrent misses for one path
// may both upload; the duplicate work is benign and last write wins.
type MediaCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

// NewMediaCache returns an empty cache.
func NewMediaCache() *MediaCache {
	return &MediaCache{ids: make(map[string]string)}
}

// Get returns the cached remote ID for a path, if any.
func (c *MediaCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[path]
	return id, ok
}

// Put records the remote ID issued for a path.
func (c *MediaCache) Put(path, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[path] = id
}
