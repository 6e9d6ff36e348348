package usecase

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

// CreateParams are the operator-supplied fields for a new QR record.
type CreateParams struct {
	Title         string
	AllowTracking bool
	Password      string
	CustomDomain  string
}

// SettingsUpdate carries partial settings changes; nil fields stay untouched.
type SettingsUpdate struct {
	AllowTracking *bool
	Password      *string
	CustomDomain  *string
}

// RecordList is one page of records with its pagination envelope.
type RecordList struct {
	Items   []*entity.Record
	Total   int64
	Page    int64
	Limit   int64
	HasMore bool
}

// Stats summarizes the record inventory.
type Stats struct {
	TotalRecords int64                        `json:"total_records"`
	TotalScans   int64                        `json:"total_scans"`
	ByKind       map[entity.ContentKind]int64 `json:"by_kind"`
}

// RecordService owns the QR record lifecycle: creation with image binding,
// listing, soft and hard deletion, restore and settings changes.
type RecordService struct {
	records   repository.RecordRepository
	blobs     repository.BlobStore
	cache     repository.CacheRepository
	allocator *Allocator
	binding   *ImageBinding
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecordService creates a record lifecycle service. cache may be nil.
func NewRecordService(
	records repository.RecordRepository,
	blobs repository.BlobStore,
	cache repository.CacheRepository,
	allocator *Allocator,
	binding *ImageBinding,
	logger *zap.Logger,
) *RecordService {
	return &RecordService{
		records:   records,
		blobs:     blobs,
		cache:     cache,
		allocator: allocator,
		binding:   binding,
		logger:    logger,
		now:       time.Now,
	}
}

// Create allocates an identifier, binds the scannable image and persists the
// record with the explicit empty variant. The image is bound before the
// record is committed; if persistence fails the bound image is removed so no
// orphan survives a failed creation.
func (s *RecordService) Create(ctx context.Context, params CreateParams) (*entity.Record, error) {
	id, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	imageRef, err := s.binding.Bind(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &entity.Record{
		ID:            id,
		Title:         params.Title,
		ImageRef:      imageRef,
		ActiveContent: entity.NewEmptyContent(now),
		CreatedAt:     now,
		Active:        true,
		Settings: entity.Settings{
			AllowTracking: params.AllowTracking,
			Password:      params.Password,
			CustomDomain:  params.CustomDomain,
		},
	}

	if err := s.records.Save(ctx, record); err != nil {
		s.binding.Unbind(ctx, imageRef)
		return nil, storeError(err)
	}

	s.logger.Info("qr record created",
		zap.String("qr_id", id),
		zap.String("title", params.Title))
	return record, nil
}

// Get returns a record by id, including soft-deleted ones. History is
// stripped unless requested.
func (s *RecordService) Get(ctx context.Context, id string, withHistory bool) (*entity.Record, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !withHistory {
		record.History = nil
	}
	return record, nil
}

// List returns a filtered, sorted page of active records.
func (s *RecordService) List(ctx context.Context, filter repository.RecordFilter) (*RecordList, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	items, err := s.records.Find(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	total, err := s.records.Count(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}

	for _, item := range items {
		item.History = nil
	}

	return &RecordList{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		HasMore: filter.Page*filter.Limit < total,
	}, nil
}

// SoftDelete marks the record as not publicly resolvable. The record and its
// blobs are retained and it can be restored later.
func (s *RecordService) SoftDelete(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore makes a soft-deleted record publicly resolvable again.
func (s *RecordService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *RecordService) setActive(ctx context.Context, id string, active bool) error {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if record == nil {
		return ErrRecordNotFound
	}

	record.Active = active
	if err := s.records.Save(ctx, record); err != nil {
		return storeError(err)
	}

	s.invalidate(ctx, id)
	return nil
}

// HardDelete removes the record, the blob behind a currently active file
// variant and the bound image. Blobs referenced only from history are left
// in place.
func (s *RecordService) HardDelete(ctx context.Context, id string) error {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if record == nil {
		return ErrRecordNotFound
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	s.invalidate(ctx, id)

	if record.ActiveContent.Kind == entity.ContentFile && record.ActiveContent.File != nil {
		if err := s.blobs.Delete(ctx, record.ActiveContent.File.FileRef); err != nil {
			s.logger.Warn("failed to delete file blob on hard delete",
				zap.String("qr_id", id),
				zap.String("blob", record.ActiveContent.File.FileRef),
				zap.Error(err))
		}
	}
	s.binding.Unbind(ctx, record.ImageRef)

	s.logger.Info("qr record hard deleted", zap.String("qr_id", id))
	return nil
}

// UpdateSettings applies partial settings changes.
func (s *RecordService) UpdateSettings(ctx context.Context, id string, update SettingsUpdate) (*entity.Record, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if update.AllowTracking != nil {
		record.Settings.AllowTracking = *update.AllowTracking
	}
	if update.Password != nil {
		record.Settings.Password = *update.Password
	}
	if update.CustomDomain != nil {
		record.Settings.CustomDomain = *update.CustomDomain
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, storeError(err)
	}
	s.invalidate(ctx, id)
	return record, nil
}

// Stats counts active records per content kind and sums scan counters.
func (s *RecordService) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByKind: make(map[entity.ContentKind]int64)}

	total, err := s.records.Count(ctx, repository.RecordFilter{})
	if err != nil {
		return nil, storeError(err)
	}
	stats.TotalRecords = total

	for _, kind := range []entity.ContentKind{
		entity.ContentEmpty, entity.ContentText, entity.ContentLink,
		entity.ContentFile, entity.ContentContact,
	} {
		k := kind
		count, err := s.records.Count(ctx, repository.RecordFilter{Kind: &k})
		if err != nil {
			return nil, storeError(err)
		}
		stats.ByKind[kind] = count
	}

	scans, err := s.records.TotalScans(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	stats.TotalScans = scans

	return stats, nil
}

// OpenImage streams the bound scannable image of a record.
func (s *RecordService) OpenImage(ctx context.Context, id string) (io.ReadCloser, int64, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, 0, storeError(err)
	}
	if record == nil {
		return nil, 0, ErrRecordNotFound
	}

	reader, size, err := s.blobs.Open(ctx, record.ImageRef)
	if err != nil {
		return nil, 0, resourceError("failed to open qr image", err)
	}
	return reader, size, nil
}

func (s *RecordService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate record cache",
			zap.String("qr_id", id),
			zap.Error(err))
	}
}
