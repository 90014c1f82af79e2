// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// ValidationError indicates profile or filter validation failed.
type ValidationError struct {
	Cause   error    // Underlying error, if any
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	if len(e.Details) == 1 {
		return fmt.Sprintf("validation failed: %s: %s: %s", e.Field, e.Message, e.Details[0])
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// WrapValidationError creates a validation error that keeps its cause.
func WrapValidationError(field, message string, cause error) *ValidationError {
	e := NewValidationError(field, message)
	if cause != nil {
		e.Cause = cause
		e.Details = []string{cause.Error()}
	}
	return e
}

// IngestError indicates a data file could not be opened or read.
type IngestError struct {
	Cause   error
	Path    string
	Message string
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest failed for %s: %s", e.Path, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

// NewIngestError creates a new ingest error.
func NewIngestError(path, message string, cause error) *IngestError {
	return &IngestError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
