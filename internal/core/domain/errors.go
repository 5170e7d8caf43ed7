// Package domain defines the core data model for pagekeep.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes follow the format PK-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "PK-DOC-4220")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Document Errors (DOC)
// ============================================================================

var (
	// ErrDeserialization indicates the stored document could not be parsed.
	// No partial recovery is attempted.
	ErrDeserialization = NewDomainError("PK-DOC-4220", "stored document is malformed")
)

// ============================================================================
// Storage Errors (STORE)
// ============================================================================

var (
	// ErrPersistence indicates the key-value store rejected a read or write.
	ErrPersistence = NewDomainError("PK-STORE-5001", "store rejected operation")

	// ErrStoreClosed indicates an operation on a closed storage engine.
	ErrStoreClosed = NewDomainError("PK-STORE-5002", "store closed")
)

// ============================================================================
// Argument and Configuration Errors (ARG, CFG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("PK-ARG-1001", "invalid argument")

	// ErrInvalidConfig indicates the configuration failed verification.
	ErrInvalidConfig = NewDomainError("PK-CFG-1002", "invalid configuration")
)
