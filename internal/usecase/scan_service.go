package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

// recordCacheTTL bounds how long a resolved record may be served from cache.
const recordCacheTTL = 30 * time.Second

// FormatVCard requests the structured contact export instead of the card view.
const FormatVCard = "vcard"

// Access carries the request context of one resolution.
type Access struct {
	// Password is the supplied password, if any.
	Password string
	// Counted marks a public scan; previews never mutate counters or history.
	Counted bool
	// Format is an explicit response format request (contact kind only).
	Format string

	IP        string
	UserAgent string
	Referer   string
}

// ScanService resolves an identifier and request context into exactly one
// response directive. It reads the content structure and mutates only the
// usage counters and analytics trail.
type ScanService struct {
	records   repository.RecordRepository
	blobs     repository.BlobStore
	analytics repository.AnalyticsRepository
	cache     repository.CacheRepository
	limiter   *AttemptLimiter
	logger    *zap.Logger
	now       func() time.Time
}

// NewScanService creates a scan dispatcher. cache, analytics and limiter may
// be nil to disable the respective concern.
func NewScanService(
	records repository.RecordRepository,
	blobs repository.BlobStore,
	analytics repository.AnalyticsRepository,
	cache repository.CacheRepository,
	limiter *AttemptLimiter,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		records:   records,
		blobs:     blobs,
		analytics: analytics,
		cache:     cache,
		limiter:   limiter,
		logger:    logger,
		now:       time.Now,
	}
}

// Resolve turns the active content of a record into a response directive.
// The password gate runs before any counting, so denied attempts never show
// up as scans.
func (s *ScanService) Resolve(ctx context.Context, id string, access Access) (*entity.Directive, error) {
	record, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &entity.Directive{Kind: entity.DirectiveNotFound}, nil
	}

	if record.Settings.Password != "" {
		directive, err := s.checkPassword(record, access)
		if err != nil || directive != nil {
			return directive, err
		}
	}

	if access.Counted {
		s.count(ctx, record, access)
	}

	return s.dispatch(ctx, record, access)
}

// lookup fetches the publicly resolvable record, going through the cache
// when one is configured. Cache failures degrade to repository reads.
func (s *ScanService) lookup(ctx context.Context, id string) (*entity.Record, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRecord(ctx, id)
		if err != nil {
			s.logger.Warn("record cache read failed",
				zap.String("qr_id", id),
				zap.Error(err))
		} else if cached != nil && cached.Active {
			return cached, nil
		}
	}

	record, err := s.records.FindActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if record == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetRecord(ctx, record, recordCacheTTL); err != nil {
			s.logger.Warn("record cache write failed",
				zap.String("qr_id", id),
				zap.Error(err))
		}
	}
	return record, nil
}

// checkPassword applies the attempt limiter and the stored password. The
// comparison is plain equality, matching the externally observable behavior
// of the stored value format. Returns a terminal directive on denial, or
// (nil, nil) to continue.
func (s *ScanService) checkPassword(record *entity.Record, access Access) (*entity.Directive, error) {
	if s.limiter != nil && access.IP != "" && !s.limiter.Allow(access.IP) {
		return nil, ErrTooManyAttempts
	}

	if access.Password == "" || access.Password != record.Settings.Password {
		if s.limiter != nil && access.IP != "" && access.Password != "" {
			s.limiter.RecordFailure(access.IP)
		}
		return &entity.Directive{Kind: entity.DirectivePasswordRequired, Title: record.Title}, nil
	}

	if s.limiter != nil && access.IP != "" {
		s.limiter.Reset(access.IP)
	}
	return nil, nil
}

// count bumps the usage counters and emits an analytics event when the
// record opted into tracking. Both are best-effort; counting failures never
// fail the scan.
func (s *ScanService) count(ctx context.Context, record *entity.Record, access Access) {
	now := s.now()
	if err := s.records.RecordScan(ctx, record.ID, now); err != nil {
		s.logger.Warn("failed to record scan",
			zap.String("qr_id", record.ID),
			zap.Error(err))
	}

	if !record.Settings.AllowTracking || s.analytics == nil {
		return
	}

	event := &entity.ScanEvent{
		QRID:      record.ID,
		IP:        access.IP,
		Device:    ClassifyDevice(access.UserAgent),
		Referer:   access.Referer,
		Timestamp: now,
	}
	if err := s.analytics.Insert(ctx, event); err != nil {
		s.logger.Warn("failed to store scan event",
			zap.String("qr_id", record.ID),
			zap.Error(err))
	}
}

// dispatch branches on the active content kind. Malformed stored content, a
// known kind with its payload missing or an unknown kind, degrades to the
// placeholder instead of failing the scan.
func (s *ScanService) dispatch(ctx context.Context, record *entity.Record, access Access) (*entity.Directive, error) {
	content := record.ActiveContent

	switch content.Kind {
	case entity.ContentEmpty:
		return &entity.Directive{
			Kind:  entity.DirectiveRender,
			View:  entity.ViewPlaceholder,
			Title: record.Title,
		}, nil

	case entity.ContentText:
		if content.Text == nil {
			return s.degrade(record, "text payload missing"), nil
		}
		return &entity.Directive{
			Kind:        entity.DirectiveRender,
			View:        entity.ViewText,
			Title:       record.Title,
			Text:        content.Text.Text,
			Description: content.Description,
		}, nil

	case entity.ContentLink:
		if content.Link == nil {
			return s.degrade(record, "link payload missing"), nil
		}
		return &entity.Directive{
			Kind:     entity.DirectiveRedirect,
			Location: content.Link.URL,
		}, nil

	case entity.ContentFile:
		if content.File == nil {
			return s.degrade(record, "file payload missing"), nil
		}
		exists, err := s.blobs.Exists(ctx, content.File.FileRef)
		if err != nil {
			return nil, resourceError("failed to check file blob", err)
		}
		if !exists {
			return nil, ErrBlobMissing
		}
		return &entity.Directive{
			Kind:        entity.DirectiveStream,
			BlobRef:     content.File.FileRef,
			MimeType:    content.File.MimeType,
			Size:        content.File.Size,
			FileName:    content.File.OriginalName,
			Disposition: dispositionFor(content.File.MimeType),
		}, nil

	case entity.ContentContact:
		if content.Contact == nil {
			return s.degrade(record, "contact payload missing"), nil
		}
		if access.Format == FormatVCard {
			return &entity.Directive{
				Kind:        entity.DirectiveExport,
				Payload:     []byte(content.Contact.VCard()),
				ContentType: "text/vcard; charset=utf-8",
				ExportName:  "contact.vcf",
			}, nil
		}
		return &entity.Directive{
			Kind:        entity.DirectiveRender,
			View:        entity.ViewContact,
			Title:       record.Title,
			Description: content.Description,
			Contact:     content.Contact,
		}, nil
	}

	return s.degrade(record, "unknown kind"), nil
}

// degrade renders the placeholder for a record whose stored content is
// malformed. Bad stored data is our problem, not the caller's, so the scan
// still succeeds.
func (s *ScanService) degrade(record *entity.Record, reason string) *entity.Directive {
	s.logger.Error("record content is malformed",
		zap.String("qr_id", record.ID),
		zap.String("kind", string(record.ActiveContent.Kind)),
		zap.String("reason", reason))
	return &entity.Directive{
		Kind:  entity.DirectiveRender,
		View:  entity.ViewPlaceholder,
		Title: record.Title,
	}
}

// inlineMimePrefixes lists mime families browsers can present directly.
var inlineMimePrefixes = []string{"image/", "video/", "audio/", "text/"}

func dispositionFor(mimeType string) string {
	mt := strings.ToLower(mimeType)
	if mt == "application/pdf" {
		return entity.DispositionInline
	}
	for _, prefix := range inlineMimePrefixes {
		if strings.HasPrefix(mt, prefix) {
			return entity.DispositionInline
		}
	}
	return entity.DispositionAttachment
}

// OpenBlob streams a stored blob for a stream directive.
func (s *ScanService) OpenBlob(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	reader, size, err := s.blobs.Open(ctx, key)
	if err != nil {
		return nil, 0, resourceError("failed to open file blob", err)
	}
	return reader, size, nil
}
