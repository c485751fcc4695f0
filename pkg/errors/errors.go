// Package errors provides the structured error system for attachstore with
// error codes and categories covering configuration and remote-service
// failures.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a structured error code for attachstore operations.
type ErrorCode string

const (
	// Configuration errors
	ErrCodeInvalidSource      ErrorCode = "INVALID_CREDENTIALS_SOURCE"
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeConfigLoad         ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigValidation   ErrorCode = "CONFIG_VALIDATION"
	ErrCodeClientUnavailable  ErrorCode = "CLIENT_UNAVAILABLE"

	// Remote service errors
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeContainerCreate      ErrorCode = "CONTAINER_CREATE"
	ErrCodeContainerPublish     ErrorCode = "CONTAINER_PUBLISH"
	ErrCodeObjectNotFound       ErrorCode = "OBJECT_NOT_FOUND"
	ErrCodeObjectRead           ErrorCode = "OBJECT_READ"
	ErrCodeObjectWrite          ErrorCode = "OBJECT_WRITE"
	ErrCodeObjectDelete         ErrorCode = "OBJECT_DELETE"
	ErrCodeAccessDenied         ErrorCode = "ACCESS_DENIED"
	ErrCodeQuotaExceeded        ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeNetworkError         ErrorCode = "NETWORK_ERROR"

	// State errors
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// Internal errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the general category of an error.
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryRemote        ErrorCategory = "remote"
	CategoryState         ErrorCategory = "state"
	CategoryInternal      ErrorCategory = "internal"
)

// StorageError represents a structured error with context and metadata.
// Errors in the configuration category are fatal to backend setup; errors
// in the remote category surface the failing remote operation to the
// caller unchanged.
type StorageError struct {
	Code     ErrorCode     `json:"code"`
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`

	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`

	Component string `json:"component,omitempty"`
	Operation string `json:"operation,omitempty"`
	Container string `json:"container,omitempty"`
	Key       string `json:"key,omitempty"`
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	var b strings.Builder
	if e.Component != "" {
		if e.Operation != "" {
			fmt.Fprintf(&b, "[%s:%s] ", e.Component, e.Operation)
		} else {
			fmt.Fprintf(&b, "[%s] ", e.Component)
		}
	}
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %s", e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error wrapping compatibility.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code for errors.Is compatibility.
func (e *StorageError) Is(target error) bool {
	if storageErr, ok := target.(*StorageError); ok {
		return e.Code == storageErr.Code
	}
	return false
}

// New creates a new structured error with its category derived from code.
func New(code ErrorCode, message string) *StorageError {
	return &StorageError{
		Code:      code,
		Category:  GetCategory(code),
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Newf creates a new structured error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *StorageError {
	return New(code, fmt.Sprintf(format, args...))
}

// GetCategory determines the category for an error code.
func GetCategory(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeInvalidSource, ErrCodeMissingCredentials, ErrCodeConfigLoad,
		ErrCodeConfigValidation, ErrCodeClientUnavailable:
		return CategoryConfiguration
	case ErrCodeAuthenticationFailed, ErrCodeContainerCreate, ErrCodeContainerPublish,
		ErrCodeObjectNotFound, ErrCodeObjectRead, ErrCodeObjectWrite,
		ErrCodeObjectDelete, ErrCodeAccessDenied, ErrCodeQuotaExceeded,
		ErrCodeNetworkError:
		return CategoryRemote
	case ErrCodeNotInitialized:
		return CategoryState
	default:
		return CategoryInternal
	}
}

// WithCause sets the underlying cause.
func (e *StorageError) WithCause(cause error) *StorageError {
	e.Cause = cause
	return e
}

// WithComponent sets the component for an error.
func (e *StorageError) WithComponent(component string) *StorageError {
	e.Component = component
	return e
}

// WithOperation sets the failing operation for an error.
func (e *StorageError) WithOperation(operation string) *StorageError {
	e.Operation = operation
	return e
}

// WithContainer records the container involved in the failure.
func (e *StorageError) WithContainer(container string) *StorageError {
	e.Container = container
	return e
}

// WithKey records the object key involved in the failure.
func (e *StorageError) WithKey(key string) *StorageError {
	e.Key = key
	return e
}
