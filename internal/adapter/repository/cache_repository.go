package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

const recordCacheKeyPrefix = "qr:record:"

type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates the Redis-backed record cache.
func NewRedisCacheRepository(client *redis.Client) repository.CacheRepository {
	return &RedisCacheRepository{client: client}
}

func (r *RedisCacheRepository) GetRecord(ctx context.Context, id string) (*entity.Record, error) {
	data, err := r.client.Get(ctx, recordCacheKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var record entity.Record
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, nil
	}
	return &record, nil
}

func (r *RedisCacheRepository) SetRecord(ctx context.Context, record *entity.Record, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, recordCacheKeyPrefix+record.ID, data, ttl).Err()
}

func (r *RedisCacheRepository) Invalidate(ctx context.Context, id string) error {
	return r.client.Del(ctx, recordCacheKeyPrefix+id).Err()
}
