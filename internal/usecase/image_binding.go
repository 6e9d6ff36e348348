package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/provider"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

// ImageBinding ties a record id to its generated scannable image. Bind runs
// exactly once per record, at creation; the image encodes the canonical scan
// URL, so regenerating it later would silently detach printed codes.
type ImageBinding struct {
	encoder provider.Encoder
	blobs   repository.BlobStore
	baseURL string
	opts    provider.EncodeOptions
	logger  *zap.Logger
}

// NewImageBinding creates an image binding service.
func NewImageBinding(encoder provider.Encoder, blobs repository.BlobStore, baseURL string, opts provider.EncodeOptions, logger *zap.Logger) *ImageBinding {
	return &ImageBinding{
		encoder: encoder,
		blobs:   blobs,
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
		logger:  logger,
	}
}

// ScanURL returns the canonical URL the bound image encodes.
func (b *ImageBinding) ScanURL(id string) string {
	return fmt.Sprintf("%s/scan/%s", b.baseURL, id)
}

// Bind encodes the scan URL for id and writes the image to the blob store,
// returning the blob key. On any failure the partially written artifact is
// removed so record creation can abort cleanly.
func (b *ImageBinding) Bind(ctx context.Context, id string) (string, error) {
	image, err := b.encoder.Encode(b.ScanURL(id), b.opts)
	if err != nil {
		return "", resourceError("failed to encode qr image", err)
	}

	key := fmt.Sprintf("qrcodes/%s.png", id)
	if err := b.blobs.Write(ctx, key, bytes.NewReader(image), "image/png", int64(len(image))); err != nil {
		if delErr := b.blobs.Delete(ctx, key); delErr != nil {
			b.logger.Warn("failed to clean up partial qr image",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return "", resourceError("failed to store qr image", err)
	}

	return key, nil
}

// Unbind removes a previously bound image. Used when record creation fails
// after the image was written, and on hard delete.
func (b *ImageBinding) Unbind(ctx context.Context, imageRef string) {
	if imageRef == "" {
		return
	}
	if err := b.blobs.Delete(ctx, imageRef); err != nil {
		b.logger.Warn("failed to delete qr image",
			zap.String("key", imageRef),
			zap.Error(err))
	}
}
