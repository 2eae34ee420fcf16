package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeFetchFailure       ErrorType = "fetch_failure"
	ErrorTypePermissionDenied   ErrorType = "permission_denied"
	ErrorTypeTransfer           ErrorType = "transfer_error"
	ErrorTypeSharingUnavailable ErrorType = "sharing_unavailable"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeInternal           ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches a human-readable hint to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func newAppError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewFetchFailure reports a failed photo page request
func NewFetchFailure(message string, cause error) *AppError {
	return newAppError(ErrorTypeFetchFailure, http.StatusBadGateway, message, cause)
}

// NewPermissionDenied reports a refused media library grant
func NewPermissionDenied(message string, cause error) *AppError {
	return newAppError(ErrorTypePermissionDenied, http.StatusForbidden, message, cause)
}

// NewTransferError reports a failed resource download or hand-off
func NewTransferError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTransfer, http.StatusBadGateway, message, cause)
}

// NewSharingUnavailable reports that no share mechanism is configured
func NewSharingUnavailable(message string, cause error) *AppError {
	return newAppError(ErrorTypeSharingUnavailable, http.StatusServiceUnavailable, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// As extracts the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
