// Package memory implements a bounded in-process storage.EmbeddingCache.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/poiesic/personarank/storage"
)

// DefaultCapacity is the number of embeddings kept when no capacity is given.
const DefaultCapacity = 4096

type entry struct {
	key storage.Key
	vec []float32
}

// cache is a least recently used embedding cache.
type cache struct {
	mu     sync.Mutex
	cap    int
	ll     *list.List
	items  map[storage.Key]*list.Element
	closed bool
}

var _ storage.EmbeddingCache = (*cache)(nil)

// NewEmbeddingCache creates an LRU cache holding at most capacity embeddings.
// A capacity of zero or less uses DefaultCapacity.
func NewEmbeddingCache(capacity int) storage.EmbeddingCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &cache{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[storage.Key]*list.Element, capacity),
	}
}

func (c *cache) Get(_ context.Context, keys ...storage.Key) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, storage.ErrCacheClosed
	}

	results := make([][]float32, len(keys))
	for i, key := range keys {
		if el, ok := c.items[key]; ok {
			c.ll.MoveToFront(el)
			results[i] = cloneVec(el.Value.(*entry).vec)
		}
	}
	return results, nil
}

func (c *cache) Put(_ context.Context, entries ...storage.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return storage.ErrCacheClosed
	}

	for _, e := range entries {
		if el, ok := c.items[e.Key]; ok {
			el.Value.(*entry).vec = cloneVec(e.Vector)
			c.ll.MoveToFront(el)
			continue
		}
		el := c.ll.PushFront(&entry{key: e.Key, vec: cloneVec(e.Vector)})
		c.items[e.Key] = el
		if c.ll.Len() > c.cap {
			back := c.ll.Back()
			c.ll.Remove(back)
			delete(c.items, back.Value.(*entry).key)
		}
	}
	return nil
}

func (c *cache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, storage.ErrCacheClosed
	}
	return c.ll.Len(), nil
}

func (c *cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.ll.Init()
	clear(c.items)
	return nil
}

func cloneVec(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
