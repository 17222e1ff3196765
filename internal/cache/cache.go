package cache

import (
	"sort"
	"sync"

	"pricefeed/internal/model"
)

// PriceCache maps a normalized symbol to its latest snapshot.
// Snapshots are stored and returned by value, so a reader never observes a
// snapshot that is only partially written.
type PriceCache struct {
	mu    sync.RWMutex
	items map[string]model.PriceSnapshot
}

// New creates an empty cache. Entries only appear once a ticker arrives.
func New() *PriceCache {
	return &PriceCache{
		items: make(map[string]model.PriceSnapshot),
	}
}

// Put replaces the snapshot stored under key. Last write wins.
func (c *PriceCache) Put(key string, snapshot model.PriceSnapshot) {
	c.mu.Lock()
	c.items[key] = snapshot
	c.mu.Unlock()
}

// PutBatch replaces every snapshot of a batch under one lock, keyed by
// model.PriceSnapshot.Key.
func (c *PriceCache) PutBatch(snapshots []model.PriceSnapshot) {
	if len(snapshots) == 0 {
		return
	}
	c.mu.Lock()
	for _, snapshot := range snapshots {
		c.items[snapshot.Key()] = snapshot
	}
	c.mu.Unlock()
}

func (c *PriceCache) Get(key string) (model.PriceSnapshot, bool) {
	c.mu.RLock()
	snapshot, ok := c.items[key]
	c.mu.RUnlock()
	return snapshot, ok
}

func (c *PriceCache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Keys returns the cached keys in ascending order.
func (c *PriceCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}
