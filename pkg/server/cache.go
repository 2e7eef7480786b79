package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores encoded response bodies.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, expiration time.Duration) error
	Close() error
}

type LocalEntry struct {
	Expires time.Time
	Data    []byte
}

// MemoryCache is a process local Cache used when no redis is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]LocalEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]LocalEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	local, found := c.entries[key]
	c.mu.RUnlock()
	if !found {
		return nil, false, nil
	}
	if !local.Expires.After(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return local.Data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = LocalEntry{Expires: c.now().Add(expiration), Data: data}
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

type RedisCache struct {
	Addr   string
	DB     int
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{Addr: addr, DB: db, client: rdb}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, expiration time.Duration) error {
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
