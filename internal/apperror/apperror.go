package apperror

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Handlers map these to HTTP statuses; services wrap them
// with human-readable messages via the constructors below.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrEmptyExtraction    = errors.New("empty extraction")
	ErrNoSlotsFound       = errors.New("no slots found")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrStructuringFailed  = errors.New("structuring failed")
	ErrInternal           = errors.New("internal error")
)

// Error carries a sentinel kind plus a message safe to show to clients.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Err: ErrUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Err: ErrForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Err: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *Error {
	return &Error{Err: ErrConflict, Message: message}
}

func Invalid(message string) *Error {
	return &Error{Err: ErrInvalidInput, Message: message}
}

func UnsupportedType(message string) *Error {
	return &Error{Err: ErrUnsupportedType, Message: message}
}

func EmptyExtraction(message string) *Error {
	return &Error{Err: ErrEmptyExtraction, Message: message}
}

func NoSlotsFound(message string) *Error {
	return &Error{Err: ErrNoSlotsFound, Message: message}
}

func ExtractionFailed(err error, message string) *Error {
	return &Error{Err: fmt.Errorf("%w: %w", ErrExtractionFailed, err), Message: message}
}

func Unavailable(err error, message string) *Error {
	return &Error{Err: fmt.Errorf("%w: %w", ErrServiceUnavailable, err), Message: message}
}

// NotConfigured flags a missing credential. It is a ServiceUnavailable kind
// but the message names the env var so operators can tell "not configured"
// from a degraded upstream.
func NotConfigured(envVar string) *Error {
	return &Error{Err: ErrServiceUnavailable, Message: fmt.Sprintf("missing API key: %s not set in environment", envVar)}
}

func StructuringFailed(err error, message string) *Error {
	return &Error{Err: fmt.Errorf("%w: %w", ErrStructuringFailed, err), Message: message}
}

func Internal(err error) *Error {
	return &Error{Err: fmt.Errorf("%w: %w", ErrInternal, err), Message: "Internal Server Error"}
}
