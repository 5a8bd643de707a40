package similarity

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// VectorCache is a thread-safe least-recently-used cache of embedding vectors.
// A nil cache is valid and stores nothing.
type VectorCache struct {
	maxSize int
	mu      sync.Mutex
	items   map[uint64]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key   uint64
	value []float32
}

// NewVectorCache creates a cache holding at most maxSize vectors. A
// non-positive size disables caching and returns nil.
func NewVectorCache(maxSize int) *VectorCache {
	if maxSize <= 0 {
		return nil
	}
	return &VectorCache{
		maxSize: maxSize,
		items:   make(map[uint64]*list.Element),
		order:   list.New(),
	}
}

// CacheKey derives the cache key of text embedded by the named backend.
func CacheKey(backend, text string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(backend)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return d.Sum64()
}

// Get retrieves a vector and marks it as recently used.
func (c *VectorCache) Get(key uint64) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return nil, false
}

// Set adds or updates a vector, evicting the least recently used entry when
// the cache is full.
func (c *VectorCache) Set(key uint64, value []float32) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = elem

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the current number of cached vectors.
func (c *VectorCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
