package services

import (
	"context"
	"time"

	"github.com/fitmi/fitmi-backend/internal/database"
)

const (
	// DenylistKeyPrefix is the Redis key prefix for revoked token ids
	DenylistKeyPrefix = "revoked_token:"
)

// RedisDenylist stores revoked token ids in Redis. Keys expire together with
// the token they belong to, so the set never needs active purging.
type RedisDenylist struct{}

func (d *RedisDenylist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return database.RedisClient.Set(ctx, DenylistKeyPrefix+jti, "1", ttl).Err()
}

func (d *RedisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	count, err := database.RedisClient.Exists(ctx, DenylistKeyPrefix+jti).Result()
	if err != nil {
		// If Redis fails, treat the token as not revoked (fail open)
		return false, nil
	}
	return count > 0, nil
}
