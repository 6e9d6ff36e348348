package errors

// Common error codes shared across the service.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrRateLimited     = "RATE_LIMITED"

	// Domain-specific codes.
	ErrAllocationExhausted = "ALLOCATION_EXHAUSTED"
	ErrResource            = "RESOURCE"
	ErrUpstreamStore       = "UPSTREAM_STORE"
)
