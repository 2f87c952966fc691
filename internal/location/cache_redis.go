package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "location:"

// RedisCache keeps resolved locations in Redis with a fixed TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, locationID string) (Entry, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+locationID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get cached location: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached location: %w", err)
	}
	return entry, true, nil
}

func (c *RedisCache) Set(ctx context.Context, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+entry.ID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache location: %w", err)
	}
	return nil
}
