package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/usecase"
	apperrors "github.com/AzizDev404/Qr/pkg/errors"
)

func activeRecord(id string, content entity.Content) *entity.Record {
	return &entity.Record{
		ID:            id,
		Title:         "my code",
		ImageRef:      "qrcodes/" + id + ".png",
		ActiveContent: content,
		CreatedAt:     time.Now(),
		Active:        true,
	}
}

func TestScanService_Resolve_Dispatch(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Now()

	t.Run("missing record resolves to not found", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "missing").Return(nil, nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "missing", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveNotFound, directive.Kind)
	})

	t.Run("empty content renders the placeholder", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewEmptyContent(now)), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
		assert.Equal(t, entity.ViewPlaceholder, directive.View)
		assert.Equal(t, "my code", directive.Title)
	})

	t.Run("text content renders the text view", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("hello", "greeting", now)), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
		assert.Equal(t, entity.ViewText, directive.View)
		assert.Equal(t, "hello", directive.Text)
		assert.Equal(t, "greeting", directive.Description)
	})

	t.Run("link content redirects", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewLinkContent("https://example.com", "", now)), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRedirect, directive.Kind)
		assert.Equal(t, "https://example.com", directive.Location)
	})

	t.Run("file content streams when the blob exists", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockBlobs := new(MockBlobStore)

		content := entity.NewFileContent(entity.FilePayload{
			FileRef:      "uploads/abc1234/menu.pdf",
			OriginalName: "menu.pdf",
			Size:         2048,
			MimeType:     "application/pdf",
		}, "", now)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(activeRecord("abc1234", content), nil)
		mockBlobs.On("Exists", ctx, "uploads/abc1234/menu.pdf").Return(true, nil)

		service := usecase.NewScanService(mockRepo, mockBlobs, nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveStream, directive.Kind)
		assert.Equal(t, "uploads/abc1234/menu.pdf", directive.BlobRef)
		assert.Equal(t, "application/pdf", directive.MimeType)
		assert.Equal(t, int64(2048), directive.Size)
		assert.Equal(t, entity.DispositionInline, directive.Disposition)
	})

	t.Run("file content with a missing blob is a resource error", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockBlobs := new(MockBlobStore)

		content := entity.NewFileContent(entity.FilePayload{
			FileRef:      "uploads/abc1234/gone.pdf",
			OriginalName: "gone.pdf",
			Size:         100,
			MimeType:     "application/pdf",
		}, "", now)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(activeRecord("abc1234", content), nil)
		mockBlobs.On("Exists", ctx, "uploads/abc1234/gone.pdf").Return(false, nil)

		service := usecase.NewScanService(mockRepo, mockBlobs, nil, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.ErrorIs(t, err, usecase.ErrBlobMissing)
	})

	t.Run("contact content renders the card view", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		content := entity.NewContactContent(entity.ContactPayload{
			Name:  "Kim Minsu",
			Phone: "01012345678",
		}, "", now)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(activeRecord("abc1234", content), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
		assert.Equal(t, entity.ViewContact, directive.View)
		assert.Equal(t, "Kim Minsu", directive.Contact.Name)
	})

	t.Run("contact content exports a vcard on request", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		content := entity.NewContactContent(entity.ContactPayload{Name: "Kim Minsu"}, "", now)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(activeRecord("abc1234", content), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{Format: usecase.FormatVCard})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveExport, directive.Kind)
		assert.Contains(t, string(directive.Payload), "BEGIN:VCARD")
		assert.Contains(t, string(directive.Payload), "FN:Kim Minsu")
		assert.Equal(t, "contact.vcf", directive.ExportName)
	})

	t.Run("known kind with a missing payload degrades to the placeholder", func(t *testing.T) {
		for _, kind := range []entity.ContentKind{
			entity.ContentText, entity.ContentLink,
			entity.ContentFile, entity.ContentContact,
		} {
			t.Run(string(kind), func(t *testing.T) {
				mockRepo := new(MockRecordRepository)
				mockBlobs := new(MockBlobStore)

				// Corrupt document: kind set, payload pointer absent.
				record := activeRecord("abc1234", entity.Content{Kind: kind})
				mockRepo.On("FindActiveByID", ctx, "abc1234").Return(record, nil)

				service := usecase.NewScanService(mockRepo, mockBlobs, nil, nil, nil, logger)

				directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

				assert.NoError(t, err)
				assert.Equal(t, entity.DirectiveRender, directive.Kind)
				assert.Equal(t, entity.ViewPlaceholder, directive.View)
				assert.Equal(t, "my code", directive.Title)
				mockBlobs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("unknown stored kind degrades to the placeholder", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		record := activeRecord("abc1234", entity.Content{Kind: "wifi"})
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(record, nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
		assert.Equal(t, entity.ViewPlaceholder, directive.View)
	})
}

func TestScanService_Resolve_Counting(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Now()

	t.Run("counted scan bumps counters", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("hi", "", now)), nil)
		mockRepo.On("RecordScan", ctx, "abc1234", mock.AnythingOfType("time.Time")).Return(nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{Counted: true})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("preview never touches counters", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("hi", "", now)), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{Counted: false})

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "RecordScan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tracking emits an analytics event", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockAnalytics := new(MockAnalyticsRepository)

		record := activeRecord("abc1234", entity.NewTextContent("hi", "", now))
		record.Settings.AllowTracking = true
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(record, nil)
		mockRepo.On("RecordScan", ctx, "abc1234", mock.AnythingOfType("time.Time")).Return(nil)
		mockAnalytics.On("Insert", ctx, mock.MatchedBy(func(ev *entity.ScanEvent) bool {
			return ev.QRID == "abc1234" && ev.Device == entity.DeviceMobile
		})).Return(nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), mockAnalytics, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{
			Counted:   true,
			IP:        "203.0.113.9",
			UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		})

		assert.NoError(t, err)
		mockAnalytics.AssertExpectations(t)
	})

	t.Run("tracking disabled emits nothing", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockAnalytics := new(MockAnalyticsRepository)

		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("hi", "", now)), nil)
		mockRepo.On("RecordScan", ctx, "abc1234", mock.AnythingOfType("time.Time")).Return(nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), mockAnalytics, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{Counted: true})

		assert.NoError(t, err)
		mockAnalytics.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("counting failures never fail the scan", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("hi", "", now)), nil)
		mockRepo.On("RecordScan", ctx, "abc1234", mock.AnythingOfType("time.Time")).
			Return(assert.AnError)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{Counted: true})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
	})
}

func TestScanService_Resolve_PasswordGate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Now()

	protected := func() *entity.Record {
		record := activeRecord("abc1234", entity.NewTextContent("secret", "", now))
		record.Settings.Password = "open-sesame"
		return record
	}

	t.Run("missing password yields the challenge and no count", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(protected(), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{Counted: true})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectivePasswordRequired, directive.Kind)
		mockRepo.AssertNotCalled(t, "RecordScan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong password yields the challenge", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(protected(), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{Password: "wrong", Counted: true})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectivePasswordRequired, directive.Kind)
	})

	t.Run("correct password resolves and counts", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(protected(), nil)
		mockRepo.On("RecordScan", ctx, "abc1234", mock.AnythingOfType("time.Time")).Return(nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234",
			usecase.Access{Password: "open-sesame", Counted: true})

		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)
		assert.Equal(t, "secret", directive.Text)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repeated failures trip the limiter", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(protected(), nil)

		limiter := usecase.NewAttemptLimiter(3, time.Minute, nil)
		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, limiter, logger)

		access := usecase.Access{Password: "wrong", IP: "203.0.113.9"}
		for i := 0; i < 3; i++ {
			directive, err := service.Resolve(ctx, "abc1234", access)
			assert.NoError(t, err)
			assert.Equal(t, entity.DirectivePasswordRequired, directive.Kind)
		}

		// Fourth attempt is rejected outright, even with the right password.
		_, err := service.Resolve(ctx, "abc1234",
			usecase.Access{Password: "open-sesame", IP: "203.0.113.9"})

		assert.ErrorIs(t, err, usecase.ErrTooManyAttempts)
	})

	t.Run("success clears limiter state", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(protected(), nil)

		limiter := usecase.NewAttemptLimiter(3, time.Minute, nil)
		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, limiter, logger)

		for i := 0; i < 2; i++ {
			_, err := service.Resolve(ctx, "abc1234",
				usecase.Access{Password: "wrong", IP: "203.0.113.9"})
			assert.NoError(t, err)
		}

		directive, err := service.Resolve(ctx, "abc1234",
			usecase.Access{Password: "open-sesame", IP: "203.0.113.9"})
		assert.NoError(t, err)
		assert.Equal(t, entity.DirectiveRender, directive.Kind)

		assert.True(t, limiter.Allow("203.0.113.9"))
	})
}

func TestScanService_Resolve_Cache(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Now()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockCache := new(MockCacheRepository)

		mockCache.On("GetRecord", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("cached", "", now)), nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, mockCache, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, "cached", directive.Text)
		mockRepo.AssertNotCalled(t, "FindActiveByID", mock.Anything, mock.Anything)
	})

	t.Run("cache failure degrades to the repository", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockCache := new(MockCacheRepository)

		mockCache.On("GetRecord", ctx, "abc1234").Return(nil, assert.AnError)
		mockRepo.On("FindActiveByID", ctx, "abc1234").
			Return(activeRecord("abc1234", entity.NewTextContent("fresh", "", now)), nil)
		mockCache.On("SetRecord", ctx, mock.AnythingOfType("*entity.Record"), 30*time.Second).Return(nil)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, mockCache, nil, logger)

		directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.NoError(t, err)
		assert.Equal(t, "fresh", directive.Text)
	})

	t.Run("repository failure surfaces as a store error", func(t *testing.T) {
		mockRepo := new(MockRecordRepository)
		mockRepo.On("FindActiveByID", ctx, "abc1234").Return(nil, assert.AnError)

		service := usecase.NewScanService(mockRepo, new(MockBlobStore), nil, nil, nil, logger)

		_, err := service.Resolve(ctx, "abc1234", usecase.Access{})

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrUpstreamStore, apperrors.CodeOf(err))
	})
}

func TestDispositionViaDirective(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		mime string
		want string
	}{
		{"image/png", entity.DispositionInline},
		{"video/mp4", entity.DispositionInline},
		{"audio/mpeg", entity.DispositionInline},
		{"text/plain", entity.DispositionInline},
		{"application/pdf", entity.DispositionInline},
		{"application/zip", entity.DispositionAttachment},
		{"application/vnd.ms-excel", entity.DispositionAttachment},
	}

	for _, tc := range cases {
		t.Run(tc.mime, func(t *testing.T) {
			mockRepo := new(MockRecordRepository)
			mockBlobs := new(MockBlobStore)

			content := entity.NewFileContent(entity.FilePayload{
				FileRef:      "uploads/abc1234/f",
				OriginalName: "f",
				Size:         1,
				MimeType:     tc.mime,
			}, "", now)
			mockRepo.On("FindActiveByID", ctx, "abc1234").Return(activeRecord("abc1234", content), nil)
			mockBlobs.On("Exists", ctx, "uploads/abc1234/f").Return(true, nil)

			service := usecase.NewScanService(mockRepo, mockBlobs, nil, nil, nil, logger)

			directive, err := service.Resolve(ctx, "abc1234", usecase.Access{})

			assert.NoError(t, err)
			assert.Equal(t, tc.want, directive.Disposition)
		})
	}
}
