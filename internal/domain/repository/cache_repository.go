package repository

import (
	"context"
	"time"

	"github.com/AzizDev404/Qr/internal/domain/entity"
)

// CacheRepository is a read-through cache for records on the scan path.
// Implementations must treat a miss as (nil, nil); callers treat any cache
// failure as a miss.
type CacheRepository interface {
	GetRecord(ctx context.Context, id string) (*entity.Record, error)
	SetRecord(ctx context.Context, record *entity.Record, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
