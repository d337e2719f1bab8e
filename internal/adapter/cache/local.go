package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/ports"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is an in-process LRU used when Redis is not configured.
// Entries carry their own deadline; the LRU bounds memory.
type LocalCache struct {
	lru *expirable.LRU[string, localEntry]
	log *zap.Logger
	now func() time.Time
}

func NewLocalCache(size int, maxTTL time.Duration, log *zap.Logger) *LocalCache {
	if size <= 0 {
		size = 1024
	}

	log.Info("Local LRU cache initialized",
		zap.Int("size", size),
		zap.Duration("max_ttl", maxTTL),
	)
	return &LocalCache{
		lru: expirable.NewLRU[string, localEntry](size, nil, maxTTL),
		log: log,
		now: time.Now,
	}
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return "", ports.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.lru.Remove(key)
		return "", ports.ErrCacheMiss
	}
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		strVal = string(data)
	}

	entry := localEntry{value: strVal}
	if expiration > 0 {
		entry.expiresAt = c.now().Add(expiration)
	}
	c.lru.Add(key, entry)
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *LocalCache) Len() int {
	return c.lru.Len()
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	c.lru.Purge()
	return nil
}
