package memcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"reviewpulse/internal/adapters/observability"
)

type item struct {
	body    []byte
	expires time.Time
}

// Cache is a process-local TTL cache used when no Redis address is
// configured. Values are stored as JSON so behavior matches the Redis
// adapter exactly.
type Cache struct {
	mu   sync.RWMutex
	data map[string]item
}

func New() *Cache {
	c := &Cache{data: make(map[string]item)}
	go c.sweep()
	return c
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	it, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expires) {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(it.body, dst)
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = item{body: b, expires: time.Now().Add(time.Duration(ttlSec) * time.Second)}
	c.mu.Unlock()
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}

// sweep drops expired entries every 10 minutes.
func (c *Cache) sweep() {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for range t.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.data {
			if now.After(it.expires) {
				delete(c.data, k)
			}
		}
		c.mu.Unlock()
	}
}
