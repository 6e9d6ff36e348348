package repository

import (
	"context"
	"io"
)

// BlobStore is the byte-addressable storage port. Keys are path-like handles
// chosen by the caller.
type BlobStore interface {
	Write(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	Exists(ctx context.Context, key string) (bool, error)
	// Open returns the blob contents and their size. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
}
