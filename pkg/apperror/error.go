package apperror

import (
	"errors"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies an error independently of the transport.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnauthenticated Kind = "unauthenticated"
	KindDuplicate       Kind = "duplicate"
	KindInvalidState    Kind = "invalid_state"
	KindRateLimited     Kind = "rate_limited"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindDuplicate:       http.StatusBadRequest,
	KindInvalidState:    http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindRateLimited:     http.StatusTooManyRequests,
	KindUnavailable:     http.StatusServiceUnavailable,
	KindInternal:        http.StatusInternalServerError,
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Stack returns the captured stack of the wrapped error, if any.
func (e *AppError) Stack() string {
	var stackErr *goerrors.Error
	if errors.As(e.Err, &stackErr) {
		return string(stackErr.Stack())
	}
	return ""
}

func New(kind Kind, message string, err error) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func Validation(message string, details ...FieldError) *AppError {
	e := New(KindValidation, message, nil)
	e.Details = details
	return e
}

func BadRequest(message string) *AppError {
	return Validation(message)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthenticated, message, nil)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message, nil)
}

func Duplicate(message string) *AppError {
	return New(KindDuplicate, message, nil)
}

func InvalidState(message string) *AppError {
	return New(KindInvalidState, message, nil)
}

func RateLimited(message string) *AppError {
	return New(KindRateLimited, message, nil)
}

func Unavailable(message string, err error) *AppError {
	return New(KindUnavailable, message, err)
}

// Internal wraps an unexpected failure. The message is generic; the cause and
// its stack stay server-side.
func Internal(err error) *AppError {
	if err == nil {
		return New(KindInternal, "Internal Server Error", nil)
	}
	return New(KindInternal, "Internal Server Error", goerrors.Wrap(err, 1))
}
