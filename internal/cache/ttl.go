// Package cache provides a bounded, time-expiring key/value cache. It is an
// explicit collaborator injected where needed, never a process-wide global,
// so tests control both capacity and time.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a fixed-capacity LRU cache whose entries expire after a fixed
// duration. Reads of expired entries miss and evict. Safe for concurrent
// use (the underlying LRU is locked internally).
type TTL[K comparable, V any] struct {
	lru *lru.Cache[K, entry[V]]
	ttl time.Duration
	now func() time.Time
}

// New creates a TTL cache holding at most size entries, each living for ttl.
func New[K comparable, V any](size int, ttl time.Duration) (*TTL[K, V], error) {
	return NewWithClock[K, V](size, ttl, time.Now)
}

// NewWithClock is New with an injected clock for deterministic tests.
func NewWithClock[K comparable, V any](size int, ttl time.Duration, now func() time.Time) (*TTL[K, V], error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache: ttl must be positive, got %s", ttl)
	}
	inner, err := lru.New[K, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &TTL[K, V]{lru: inner, ttl: ttl, now: now}, nil
}

// Get returns the value for key if present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	e, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its expiry.
func (c *TTL[K, V]) Set(key K, value V) {
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Evict removes key from the cache.
func (c *TTL[K, V]) Evict(key K) {
	c.lru.Remove(key)
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been read.
func (c *TTL[K, V]) Len() int {
	return c.lru.Len()
}
