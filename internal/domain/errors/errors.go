package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidationFailed   = errors.New("validation failed")
	ErrValidationRejected = errors.New("validation rejected by store")
	ErrUnavailable        = errors.New("store unavailable")
	ErrUnknownStatus      = errors.New("unknown lead status")
	ErrNoOpTransition     = errors.New("lead already has this status")
	ErrTransitionDenied   = errors.New("status transition not allowed")
	ErrMemberHasLeads     = errors.New("team member still has assigned leads")
)

// Error codes returned to clients
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeValidationRejected = "VALIDATION_REJECTED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodePersistenceFailed  = "PERSISTENCE_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// FieldErrors maps a field name to a human readable message
type FieldErrors map[string]string

// AppError represents application error with HTTP status
type AppError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Fields  FieldErrors `json:"fields,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Conflict reports a request that contradicts the current state of a record.
func Conflict(cause error) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, cause.Error(), cause)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// ValidationFailed is raised before any store call when input fails field checks.
func ValidationFailed(fields FieldErrors) *AppError {
	e := NewAppError(http.StatusBadRequest, CodeValidationFailed, "validation failed", ErrValidationFailed)
	e.Fields = fields
	return e
}

// ValidationRejected is raised when the store refuses a record.
func ValidationRejected(cause error) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidationRejected, "record rejected by store", fmt.Errorf("%w: %v", ErrValidationRejected, cause))
}

// PersistenceFailed wraps a store transport/backend failure.
func PersistenceFailed(cause error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodePersistenceFailed, "lead store unavailable", fmt.Errorf("%w: %v", ErrUnavailable, cause))
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
