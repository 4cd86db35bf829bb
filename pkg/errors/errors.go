package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeParsing         ErrorType = "parsing"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeMalformedRecord ErrorType = "malformed_record"
	ErrorTypeStoreRead       ErrorType = "store_read"
	ErrorTypeInvalidFilter   ErrorType = "invalid_filter"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error represents a classified error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// MalformedRecord reports a page item whose required fields could not be
// extracted. Items failing with this error are skipped, not fatal to a run.
func MalformedRecord(field, reason string) *Error {
	return &Error{
		Type:    ErrorTypeMalformedRecord,
		Message: fmt.Sprintf("field %q: %s", field, reason),
	}
}

// StoreRead reports a persisted collection run that is missing, unreadable,
// or fails schema validation. Fatal to the invocation that hits it.
func StoreRead(path string, err error) *Error {
	return &Error{
		Type:    ErrorTypeStoreRead,
		Message: fmt.Sprintf("store %s: %v", path, err),
	}
}

// InvalidFilter reports a filter token that is empty after stripping the
// hashtag marker. Rejected before any partitioning begins.
func InvalidFilter(token string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidFilter,
		Message: fmt.Sprintf("filter token %q is empty after stripping the hashtag marker", token),
	}
}

// IsType checks whether err (or anything it wraps) is an Error of the given type
func IsType(err error, t ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == t
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
