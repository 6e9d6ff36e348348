package errors

// codeMapping maps machine codes to HTTP status codes.
var codeMapping = map[string]int{
	ErrInternal:            500,
	ErrNotFound:            404,
	ErrInvalidArgument:     400,
	ErrUnauthenticated:     401,
	ErrUnauthorized:        403,
	ErrConflict:            409,
	ErrTimeout:             504,
	ErrRateLimited:         429,
	ErrAllocationExhausted: 500,
	ErrResource:            502,
	ErrUpstreamStore:       500,
}

// GetCodeMapping returns the HTTP status for the given error code.
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return 500
}
