package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

// Upload carries the bytes accompanying a file-kind content update.
type Upload struct {
	Reader   io.Reader
	Filename string
	Size     int64
	MimeType string
}

// ContentService validates and atomically swaps a record's active content,
// archiving the previous variant.
type ContentService struct {
	records repository.RecordRepository
	blobs   repository.BlobStore
	cache   repository.CacheRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewContentService creates a content update engine. cache may be nil.
func NewContentService(
	records repository.RecordRepository,
	blobs repository.BlobStore,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		records: records,
		blobs:   blobs,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// UpdateContent replaces the active variant of the record. The previous
// variant moves into history (bounded), the proposed one becomes active with
// a fresh LastUpdated, and the record is persisted.
//
// Blob ordering invariant: a blob referenced by the previously active file
// variant is deleted only after the new record state is persisted. If
// persistence fails, the old blob stays retrievable; the freshly uploaded
// blob may be orphaned, which is the accepted failure mode. The engine
// prefers leaked blobs over dangling references.
func (s *ContentService) UpdateContent(ctx context.Context, id string, proposed entity.Content, upload *Upload) (*entity.Record, error) {
	if !entity.KnownKind(proposed.Kind) {
		return nil, ErrInvalidContentKind
	}

	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if proposed.Kind == entity.ContentFile {
		if upload == nil {
			return nil, ErrUploadRequired
		}
		proposed.File = filePayload(id, upload)
	}

	// Validation runs before the upload bytes are written, so a rejected
	// proposal never leaves a blob behind.
	if err := proposed.Validate(); err != nil {
		return nil, invalidContent(err)
	}

	if proposed.Kind == entity.ContentFile {
		if err := s.blobs.Write(ctx, proposed.File.FileRef, upload.Reader, upload.MimeType, upload.Size); err != nil {
			return nil, resourceError("failed to store uploaded file", err)
		}
	}

	previous := record.ActiveContent
	record.SwapContent(proposed, s.now())

	if err := s.records.Save(ctx, record); err != nil {
		// The old blob must survive a failed persistence; only the new,
		// now-orphaned upload is worth mentioning.
		if proposed.Kind == entity.ContentFile && proposed.File != nil {
			s.logger.Warn("content update persistence failed, uploaded blob orphaned",
				zap.String("qr_id", id),
				zap.String("blob", proposed.File.FileRef),
				zap.Error(err))
		}
		return nil, storeError(err)
	}

	s.invalidate(ctx, id)

	// Old blob cleanup happens strictly after the successful commit, and only
	// when the update attached a replacement blob.
	if previous.Kind == entity.ContentFile && previous.File != nil &&
		proposed.Kind == entity.ContentFile && proposed.File != nil &&
		previous.File.FileRef != proposed.File.FileRef {
		if err := s.blobs.Delete(ctx, previous.File.FileRef); err != nil {
			s.logger.Warn("failed to delete superseded file blob",
				zap.String("qr_id", id),
				zap.String("blob", previous.File.FileRef),
				zap.Error(err))
		}
	}

	return record, nil
}

// filePayload mints a blob key for the upload and describes it. The bytes
// are written separately, after validation.
func filePayload(id string, upload *Upload) *entity.FilePayload {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	key := fmt.Sprintf("uploads/%s/%s%s", id, uuid.New().String(), ext)

	return &entity.FilePayload{
		FileRef:      key,
		OriginalName: upload.Filename,
		Size:         upload.Size,
		MimeType:     upload.MimeType,
	}
}

func (s *ContentService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate record cache",
			zap.String("qr_id", id),
			zap.Error(err))
	}
}
