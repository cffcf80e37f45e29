// Package cache wraps the external key-value store with an in-process
// fallback so short-lived values (one-time codes) survive a cache outage.
// The trade: in fallback mode values are local to this process and
// invisible to other instances.
package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Resilient is a get/set/delete store that tries Redis first and, after
// any operation failure, flips to an in-process map for the rest of the
// process lifetime (or until Reconnect succeeds). Callers never observe
// a cache outage.
type Resilient struct {
	client *redis.Client

	mu       sync.Mutex
	degraded bool
	local    map[string]entry
}

func New(client *redis.Client) *Resilient {
	return &Resilient{
		client: client,
		local:  make(map[string]entry),
	}
}

// Get returns the value for key and whether it exists.
func (c *Resilient) Get(ctx context.Context, key string) (string, bool) {
	if c.isDegraded() {
		return c.localGet(key)
	}

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.degrade("get", err)
		return c.localGet(key)
	}
	return val, true
}

// Set stores value under key with an optional ttl (0 means no expiry).
func (c *Resilient) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c.isDegraded() {
		c.localSet(key, value, ttl)
		return
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.degrade("set", err)
		c.localSet(key, value, ttl)
	}
}

// Del removes key.
func (c *Resilient) Del(ctx context.Context, key string) {
	if c.isDegraded() {
		c.localDel(key)
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.degrade("del", err)
		c.localDel(key)
	}
}

// Degraded reports whether the wrapper is serving from the local map.
func (c *Resilient) Degraded() bool {
	return c.isDegraded()
}

// Reconnect pings Redis and, on success, leaves fallback mode. The local
// map is kept; keys written while degraded stay readable until they expire.
func (c *Resilient) Reconnect(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.degraded {
		log.Println("Cache connection restored, leaving fallback mode")
		c.degraded = false
	}
	return nil
}

func (c *Resilient) isDegraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

func (c *Resilient) degrade(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.degraded {
		log.Printf("WARNING: Cache %s failed, falling back to in-process store: %v", op, err)
		c.degraded = true
	}
}

func (c *Resilient) localGet(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.local[key]
	if !ok {
		return "", false
	}
	// Expiry emulation: a read past the deadline deletes the key.
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(c.local, key)
		return "", false
	}
	return item.value, true
}

func (c *Resilient) localSet(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	c.local[key] = item
}

func (c *Resilient) localDel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.local, key)
}
