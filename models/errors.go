package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "VEHICLE_NOT_FOUND"
	ErrCodeBatchNotFound = "BATCH_NOT_FOUND"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// MsgNotFound is the caller-facing message for an exhausted resolution.
const MsgNotFound = "Vehicle not found or images unavailable"

// MsgMissingLocator is returned when a request carries no identifier at all.
const MsgMissingLocator = "Provide vinLast8, stock, or url"

// ResolveError is the internal error type carrying an error code.
// A not-found outcome also carries the debug record of everything tried.
type ResolveError struct {
	Code    string
	Message string
	Err     error // wrapped original error
	Debug   *Debug
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a new ResolveError.
func NewResolveError(code, message string, err error) *ResolveError {
	return &ResolveError{Code: code, Message: message, Err: err}
}

// NotFound builds the not-found outcome for an exhausted strategy chain.
func NotFound(debug *Debug) *ResolveError {
	return &ResolveError{Code: ErrCodeNotFound, Message: MsgNotFound, Debug: debug}
}

// IsNotFound reports whether e is the expected exhausted-strategies outcome.
func (e *ResolveError) IsNotFound() bool {
	return e != nil && e.Code == ErrCodeNotFound
}

