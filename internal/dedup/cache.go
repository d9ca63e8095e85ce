// Package dedup provides a TTL cache for suppressing duplicate webhook
// deliveries. GitHub redelivers on timeouts and retries, so a short window
// keyed on X-GitHub-Delivery keeps the pipeline from double-dispatching.
package dedup

import (
	"sync"
	"time"

	"github.com/pagemill/deploy-engine/internal/adapter"
)

// Cache is an in-memory TTL set. Seen returns true when the key was recorded
// within the TTL window and records it otherwise, as a single atomic step.
//
//go:generate mockgen -source=cache.go -destination=../mocks/dedup.go -package=mocks -mock_names=Cache=MockDedupCache
type Cache interface {
	Seen(key string) bool
}

type memoryCache struct {
	mu      sync.Mutex
	clock   adapter.Clock
	ttl     time.Duration
	entries map[string]time.Time
}

// NewCache creates an in-memory dedup cache with the given TTL
func NewCache(clock adapter.Clock, ttl time.Duration) Cache {
	return &memoryCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

func (c *memoryCache) Seen(key string) bool {
	if key == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if expires, ok := c.entries[key]; ok && now.Before(expires) {
		return true
	}
	c.entries[key] = now.Add(c.ttl)
	c.sweep(now)
	return false
}

// sweep drops expired entries. Called under the lock; the map stays bounded
// by the number of distinct keys seen within one TTL window.
func (c *memoryCache) sweep(now time.Time) {
	for key, expires := range c.entries {
		if !now.Before(expires) {
			delete(c.entries, key)
		}
	}
}
