// Package cache provides a generic fixed-capacity map with
// least-recently-used eviction. The table engine uses it to memoize query
// results, so get, set and evict are all O(1) amortized.
package cache

import (
	"container/list"

	"github.com/mesh-intelligence/larder/pkg/types"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is an LRU cache. A capacity <= 0 means unbounded: Set never
// evicts. The zero value is not usable; call New.
type Cache[K comparable, V any] struct {
	capacity int
	order    *list.List // Front is least recently used.
	items    map[K]*list.Element
}

// New creates a cache with the given capacity. capacity <= 0 disables
// eviction entirely.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used.
// Returns ErrKeyNotFound if the key is absent.
func (c *Cache[K, V]) Get(key K) (V, error) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, types.ErrKeyNotFound
	}
	c.order.MoveToBack(el)
	return el.Value.(*entry[K, V]).value, nil
}

// Set inserts or replaces the value for key and marks it most recently
// used. Inserting a new key beyond a finite capacity evicts the single
// least-recently-used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToBack(el)
		return
	}
	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
	if c.capacity > 0 && c.order.Len() > c.capacity {
		c.evict()
	}
}

// Delete removes key without affecting the recency order of other
// entries. Returns ErrKeyNotFound if the key is absent.
func (c *Cache[K, V]) Delete(key K) error {
	el, ok := c.items[key]
	if !ok {
		return types.ErrKeyNotFound
	}
	c.order.Remove(el)
	delete(c.items, key)
	return nil
}

// Contains reports whether key is present. It does not alter recency.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Clear empties the cache. The capacity setting is retained.
func (c *Cache[K, V]) Clear() {
	c.order.Init()
	c.items = make(map[K]*list.Element)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.order.Len()
}

// Keys returns the cached keys in recency order, least recently used
// first.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Full reports whether a finite capacity is configured and the cache has
// reached it.
func (c *Cache[K, V]) Full() bool {
	return c.capacity > 0 && c.order.Len() >= c.capacity
}

func (c *Cache[K, V]) evict() {
	front := c.order.Front()
	if front == nil {
		return
	}
	c.order.Remove(front)
	delete(c.items, front.Value.(*entry[K, V]).key)
}
