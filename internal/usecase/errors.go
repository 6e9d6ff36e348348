package usecase

import (
	apperrors "github.com/AzizDev404/Qr/pkg/errors"
)

// Sentinel errors shared across the QR usecases. Handlers map them to HTTP
// statuses through their codes.
var (
	ErrRecordNotFound      = apperrors.NewAppError(apperrors.ErrNotFound, "qr record not found", nil)
	ErrInvalidContentKind  = apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown content kind", nil)
	ErrUploadRequired      = apperrors.NewAppError(apperrors.ErrInvalidArgument, "file content requires an upload", nil)
	ErrBlobMissing         = apperrors.NewAppError(apperrors.ErrResource, "referenced file is missing from storage", nil)
	ErrAllocationExhausted = apperrors.NewAppError(apperrors.ErrAllocationExhausted, "could not allocate a unique qr id", nil)
	ErrTooManyAttempts     = apperrors.NewAppError(apperrors.ErrRateLimited, "too many password attempts", nil)
)

// invalidContent wraps a content validation failure as a user-correctable error.
func invalidContent(err error) error {
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, err.Error(), err)
}

// storeError wraps a repository failure. It is logged with context by the
// caller and surfaced to the client as a generic failure.
func storeError(err error) error {
	return apperrors.NewAppError(apperrors.ErrUpstreamStore, "document store operation failed", err)
}

// resourceError wraps a blob store failure.
func resourceError(message string, err error) error {
	return apperrors.NewAppError(apperrors.ErrResource, message, err)
}
