package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache holds derived views by key with a TTL and size-based eviction.
// Expired entries are dropped by the underlying cache in the background.
type LRUCache[T any] struct {
	lru *expirable.LRU[string, T]
}

// NewLRUCache creates a cache holding at most maxSize entries for ttl each.
// A non-positive maxSize disables caching.
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize <= 0 {
		return &LRUCache[T]{}
	}
	return &LRUCache[T]{lru: expirable.NewLRU[string, T](maxSize, nil, ttl)}
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	if c.lru == nil {
		var zero T
		return zero, false
	}
	return c.lru.Get(key)
}

func (c *LRUCache[T]) Set(key string, value T) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, value)
}

func (c *LRUCache[T]) Delete(key string) {
	if c.lru != nil {
		c.lru.Remove(key)
	}
}

// Purge drops every entry
func (c *LRUCache[T]) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *LRUCache[T]) Size() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
