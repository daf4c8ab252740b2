package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on the code so wrapped copies compare equal to the sentinel.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Input errors
	ErrValidation     = NewDomainError("VALIDATION_ERROR", "missing or malformed input")
	ErrPasswordPolicy = NewDomainError("PASSWORD_POLICY", "password does not meet the policy")
	ErrEmailExists    = NewDomainError("EMAIL_EXISTS", "email already in use")
	ErrPhoneExists    = NewDomainError("PHONE_EXISTS", "phone number already in use")

	// Authentication errors
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrForbidden           = NewDomainError("FORBIDDEN", "forbidden")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid refresh token")

	// Verification errors
	ErrAlreadyVerified      = NewDomainError("ALREADY_VERIFIED", "this account has already been verified")
	ErrInvalidOrExpiredCode = NewDomainError("INVALID_OR_EXPIRED_CODE", "invalid or expired code")

	// Resource errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrSelfDeletion = NewDomainError("SELF_DELETION", "users cannot delete themselves")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request (duplicates are 400 here, not 409: the client UI
	// treats them as plain form errors)
	case "VALIDATION_ERROR", "PASSWORD_POLICY", "EMAIL_EXISTS", "PHONE_EXISTS",
		"ALREADY_VERIFIED", "INVALID_OR_EXPIRED_CODE":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_REFRESH_TOKEN":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "FORBIDDEN", "INVALID_TOKEN", "SELF_DELETION":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND":
		return http.StatusNotFound

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
