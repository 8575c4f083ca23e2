package filevalidator

import (
	"errors"
	"fmt"
)

// Chain errors
var (
	// ErrInvalidFormat is matched by every ValidationError.
	ErrInvalidFormat = errors.New("invalid file format")

	// ErrUnsupportedType is returned when no verifier is registered for the
	// claimed MIME type and unknown types are not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrDuplicateRegistration is returned when two verifiers claim the same
	// MIME type.
	ErrDuplicateRegistration = errors.New("duplicate verifier registration")
)

// ValidationErrorType represents different types of validation errors
type ValidationErrorType string

const (
	ErrorTypeExtension ValidationErrorType = "extension"
	ErrorTypeMIME      ValidationErrorType = "mime"
	ErrorTypeSize      ValidationErrorType = "size"
	ErrorTypeContent   ValidationErrorType = "content"
)

// ValidationError reports content that does not match the type it claims to be.
// It implements the error interface and includes the error type for programmatic handling.
type ValidationError struct {
	// Type categorizes the validation failure (extension, mime, size, content).
	Type ValidationErrorType

	// Message is the human-readable error description.
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation error: %s", e.Type, e.Message)
}

// Is makes every ValidationError match ErrInvalidFormat.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// NewValidationError creates a new ValidationError
func NewValidationError(errType ValidationErrorType, message string) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsErrorOfType checks if an error is a ValidationError of the specified type
func IsErrorOfType(err error, errType ValidationErrorType) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type == errType
	}
	return false
}

// GetErrorType returns the type of a ValidationError, or empty string if not a ValidationError
func GetErrorType(err error) ValidationErrorType {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type
	}
	return ""
}

// IsUnsupportedType reports whether err means no verifier handles the claimed type.
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}
