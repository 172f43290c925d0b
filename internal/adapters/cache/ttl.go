package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/phenrril/possync/internal/domain"
)

// TTL is a size bounded in-memory cache whose entries expire after a fixed
// lifetime. Expired entries are swept in the background by the LRU itself,
// and a Get never returns them.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

var _ domain.Cache[string, int] = (*TTL[string, int])(nil)

func NewTTL[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

func (c *TTL[K, V]) Get(key K) (V, bool) { return c.lru.Get(key) }

func (c *TTL[K, V]) Set(key K, value V) { c.lru.Add(key, value) }

func (c *TTL[K, V]) Delete(key K) { c.lru.Remove(key) }

func (c *TTL[K, V]) Purge() { c.lru.Purge() }

func (c *TTL[K, V]) Len() int { return c.lru.Len() }
