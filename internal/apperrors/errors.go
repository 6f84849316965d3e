package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that does not permit the operation.
var ErrConflict = errors.New("state conflict")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConcurrency indicates a lock wait or serialization failure. Callers may retry.
var ErrConcurrency = errors.New("concurrency conflict, retry the request")

// ErrInternal is used for unexpected infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-mappable status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewConflictError returns an AppError that matches ErrConflict.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrConflict)
}

// NewConcurrencyError returns an AppError that matches ErrConcurrency and keeps the cause.
func NewConcurrencyError(message string, cause error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, errors.Join(ErrConcurrency, cause))
}

// IsRetryable reports whether err is safe for the caller to retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
