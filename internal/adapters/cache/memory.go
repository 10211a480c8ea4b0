// Package cache provides enrichment cache adapters implementing
// ports.EnrichmentCache.
package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

type entry struct {
	key   string
	value *entities.Enrichment
}

// MemoryCache is a bounded least-recently-used cache local to the process.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	ll       *list.List
}

// NewMemoryCache creates a MemoryCache holding at most size entries.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{
		capacity: size,
		items:    make(map[string]*list.Element, size),
		ll:       list.New(),
	}
}

// Get returns the cached enrichment for key and marks it recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) (*entities.Enrichment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	c.ll.MoveToFront(elem)
	return elem.Value.(entry).value, true, nil
}

// Set stores value under key, evicting the least recently used entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, value *entities.Enrichment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = entry{key: key, value: value}
		c.ll.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.ll.PushFront(entry{key: key, value: value})
	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		c.ll.Remove(tail)
		delete(c.items, tail.Value.(entry).key)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
