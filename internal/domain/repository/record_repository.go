package repository

import (
	"context"
	"time"

	"github.com/AzizDev404/Qr/internal/domain/entity"
)

// RecordFilter narrows and orders record listings.
type RecordFilter struct {
	// Kind filters by the active content variant when set.
	Kind *entity.ContentKind
	// Search is a free-text match over title and active content description.
	Search string
	// Sort is a field name, prefixed with "-" for descending order.
	// Supported: created_at, title, scan_count. Defaults to -created_at.
	Sort string
	// IncludeInactive also returns soft-deleted records.
	IncludeInactive bool

	Page  int64
	Limit int64
}

// RecordRepository is the document-store port for QR records. Find methods
// return (nil, nil) when no document matches.
type RecordRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Record, error)
	// FindActiveByID only matches records that are publicly resolvable.
	FindActiveByID(ctx context.Context, id string) (*entity.Record, error)
	Find(ctx context.Context, filter RecordFilter) ([]*entity.Record, error)
	Count(ctx context.Context, filter RecordFilter) (int64, error)
	// Save upserts the full record document.
	Save(ctx context.Context, record *entity.Record) error
	Delete(ctx context.Context, id string) error
	// RecordScan atomically bumps scan_count and last_scanned_at. Concurrent
	// scans are not serialized against Save; the counter is analytics-grade.
	RecordScan(ctx context.Context, id string, at time.Time) error
	// TotalScans sums scan counters across all active records.
	TotalScans(ctx context.Context) (int64, error)
}
