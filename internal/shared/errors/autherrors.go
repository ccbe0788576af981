package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeAccessDenied   ErrorType = "access_denied"
	ErrorTypeTokenInvalid   ErrorType = "token_invalid"
	ErrorTypeSessionExpired ErrorType = "session_expired"
	ErrorTypeOAuthError     ErrorType = "oauth_error"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// AuthDeniedError is returned when an account fails the allowlist or the
// server-side verification. Email is retained for the denial view.
type AuthDeniedError struct {
	*AuthError
	Email  string
	Reason string
}

func (e *AuthDeniedError) Unwrap() error {
	return e.AuthError
}

// NewAuthDeniedError creates a denial for email with a human-readable reason.
func NewAuthDeniedError(email, reason string) *AuthDeniedError {
	return &AuthDeniedError{
		AuthError: &AuthError{
			AppError: &AppError{
				Type:    ErrorTypeAccessDenied,
				Message: reason,
				Code:    http.StatusForbidden,
				Details: email,
			},
			ShouldLog:     false,
			SecurityEvent: true,
		},
		Email:  email,
		Reason: reason,
	}
}

// NewTokenInvalidError creates an error for invalid tokens
func NewTokenInvalidError(message string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: message,
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewSessionExpiredError creates an error for expired sessions
func NewSessionExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeSessionExpired,
			Message: "Session expired. Please login again.",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewOAuthError creates an error for OAuth-related failures
func NewOAuthError(provider string, stage string, details ...string) *AuthError {
	detail := fmt.Sprintf("OAuth authentication failed at %s stage", stage)
	if len(details) > 0 {
		detail = details[0]
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeOAuthError,
			Message: fmt.Sprintf("OAuth authentication failed with %s", provider),
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// NewIdentityProviderError reports a failure of the identity provider itself
// (discovery, token exchange, verification endpoint) with a message that is
// safe to show to the user.
func NewIdentityProviderError(message string, details ...string) *AuthError {
	appErr := newAppError(ErrorTypeOAuthError, http.StatusBadGateway, message, details)
	return &AuthError{
		AppError:      appErr,
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error chain (supports wrapped errors via errors.As)
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// GetAuthDeniedError extracts a denial from the error chain.
func GetAuthDeniedError(err error) *AuthDeniedError {
	var denied *AuthDeniedError
	if stderrors.As(err, &denied) {
		return denied
	}
	return nil
}

// IsSessionExpired reports whether err forces a return to sign-in.
func IsSessionExpired(err error) bool {
	authErr := GetAuthError(err)
	return authErr != nil && authErr.Type == ErrorTypeSessionExpired
}

// ShouldLogAuthError returns true if the authentication error should be logged
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}
