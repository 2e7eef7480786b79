package server

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// CacheHelper computes a value once per key and expiration, shared through the cache.
type CacheHelper[T any] struct {
	Cache  Cache
	Logger *zap.Logger
}

func NewCacheHelper[T any](cache Cache, logger *zap.Logger) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache, Logger: logger}
}

// Handle returns the cached value for key or stores the result of fn. A
// failing cache is logged and treated as a miss.
func (c *CacheHelper[T]) Handle(ctx context.Context, key string, fn func() (T, error), expiration time.Duration) (T, error) {
	var out T
	data, found, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		if err = json.Unmarshal(data, &out); err == nil {
			cacheHits.Inc()
			return out, nil
		}
		c.Logger.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
	}
	out, err = fn()
	if err != nil {
		return out, err
	}
	if data, err = json.Marshal(out); err == nil {
		err = c.Cache.Set(ctx, key, data, expiration)
	}
	if err != nil {
		c.Logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}
