// Package errors provides application-level error types and utilities.
// It defines the error taxonomy shared by the upload, store, and session layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeInternal      ErrorType = "internal_error"
	ErrorTypeBadRequest    ErrorType = "bad_request"
	ErrorTypeConfiguration ErrorType = "configuration_error"
	ErrorTypeUpload        ErrorType = "upload_error"
	ErrorTypeStore         ErrorType = "store_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewConfigurationError names the environment values that are missing.
func NewConfigurationError(missing ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: "required configuration is missing",
		Code:    http.StatusInternalServerError,
		Details: strings.Join(missing, ", "),
	}
}

// NewUploadError wraps a file host failure. The message is shown to users as is.
func NewUploadError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUpload, http.StatusBadGateway, message, details)
}

// NewStoreError wraps a spreadsheet failure. The message is shown to users as is.
func NewStoreError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeStore, http.StatusBadGateway, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsConfigurationError checks if the error is a configuration error
func IsConfigurationError(err error) bool {
	return isType(err, ErrorTypeConfiguration)
}

// IsUploadError checks if the error is an upload error
func IsUploadError(err error) bool {
	return isType(err, ErrorTypeUpload)
}

// IsStoreError checks if the error is a store error
func IsStoreError(err error) bool {
	return isType(err, ErrorTypeStore)
}

// IsUnauthorizedFailure reports whether err means the access token is no
// longer accepted: an unauthorized AppError, any error carrying HTTP 401, or
// a message mentioning "unauthorized" or "401".
func IsUnauthorizedFailure(err error) bool {
	if err == nil {
		return false
	}
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Type == ErrorTypeUnauthorized || appErr.Code == http.StatusUnauthorized {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(strings.ToLower(msg), "unauthorized") || strings.Contains(msg, "401")
}

// Message returns the user-facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
