package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fitmi/fitmi-backend/internal/database"
	"github.com/fitmi/fitmi-backend/internal/models"
)

const (
	// RecordCacheKeyPrefix is the Redis key prefix for cached record lists
	RecordCacheKeyPrefix = "cache:records:"
	// RecordCacheTTL is short because record lists change on every mutation
	RecordCacheTTL = 5 * time.Minute
)

// RecordCache holds a user's full record list between reads. A nil cache
// disables caching entirely.
type RecordCache interface {
	GetList(ctx context.Context, userID string) ([]models.HealthRecord, bool)
	SetList(ctx context.Context, userID string, records []models.HealthRecord)
	Invalidate(ctx context.Context, userID string)
}

// RedisRecordCache caches record lists as JSON in Redis. All failures are
// treated as cache misses so Redis outages never break reads.
type RedisRecordCache struct{}

func (c *RedisRecordCache) GetList(ctx context.Context, userID string) ([]models.HealthRecord, bool) {
	val, err := database.RedisClient.Get(ctx, RecordCacheKeyPrefix+userID).Result()
	if err != nil {
		return nil, false
	}

	var records []models.HealthRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, false
	}
	return records, true
}

func (c *RedisRecordCache) SetList(ctx context.Context, userID string, records []models.HealthRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, RecordCacheKeyPrefix+userID, data, RecordCacheTTL)
}

func (c *RedisRecordCache) Invalidate(ctx context.Context, userID string) {
	database.RedisClient.Del(ctx, RecordCacheKeyPrefix+userID)
}
