package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a write that lost a race and can be retried by the caller.
	ErrConflict = errors.New("resource conflict")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// AppError carries a client-facing message alongside the sentinel it classifies as.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NotFound(message string) error {
	return &AppError{Code: "NOT_FOUND", Message: message, Cause: ErrNotFound}
}

func Duplicate(message string) error {
	return &AppError{Code: "DUPLICATE", Message: message, Cause: ErrAlreadyExists}
}

func Unauthorized(message string) error {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Cause: ErrUnauthorized}
}

func Forbidden(message string) error {
	return &AppError{Code: "FORBIDDEN", Message: message, Cause: ErrForbidden}
}

func Conflict(message string, cause error) error {
	return &AppError{Code: "CONFLICT", Message: message, Cause: fmt.Errorf("%w: %w", ErrConflict, cause)}
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// HTTPStatus maps an error onto the status code of its taxonomy class.
func HTTPStatus(err error) int {
	var validationError *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationError),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
