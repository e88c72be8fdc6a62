package integration

import (
	"errors"
	"fmt"
)

// Integration domain errors
var (
	// ErrMappingNotFound indicates no external identifier matched the lookup keys.
	ErrMappingNotFound = errors.New("integration: mapping not found")

	// ErrMappingConflict indicates a create violated the uniqueness of
	// (integration_id, external_type, external_id). The remote entity is
	// already mapped; the caller should have checked first.
	ErrMappingConflict = errors.New("integration: mapping already exists")

	// ErrLogInvalidStatus indicates an integration log carried an unknown status.
	ErrLogInvalidStatus = errors.New("integration: invalid log status")
)

// ---------------------------------------------------------------------------
// RequestError
// ---------------------------------------------------------------------------

// RequestError is returned by a QueryRunner when the storefront responds
// with a non-success HTTP status. The status code lets callers distinguish
// rate limiting (429) from other transport failures.
type RequestError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("integration: remote request failed with status %d: %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err (or any error it wraps) is a remote
// request failure with HTTP status 429.
func IsRateLimited(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == 429
}
