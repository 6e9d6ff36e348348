package repository

import (
	"context"

	"github.com/AzizDev404/Qr/internal/domain/entity"
)

// AnalyticsRepository stores scan analytics events.
type AnalyticsRepository interface {
	Insert(ctx context.Context, event *entity.ScanEvent) error
	CountByQR(ctx context.Context, qrID string) (int64, error)
}
