// Package errors defines the application error taxonomy shared by the reference
// loaders, the cleaning stages and the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeReferenceLookup marks an attribute with no usable reference row
	ErrTypeReferenceLookup ErrorType = "REFERENCE_LOOKUP_MISS"
	// ErrTypeSentinelSpec marks a missing-value field that does not parse into tokens
	ErrTypeSentinelSpec ErrorType = "MALFORMED_SENTINEL_SPEC"
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewReferenceLookupError reports an attribute the reference tables cannot serve
func NewReferenceLookupError(attribute, message string) *AppError {
	return NewAppError(ErrTypeReferenceLookup, fmt.Sprintf("%s: %s", attribute, message), nil).
		WithContext("attribute", attribute)
}

// NewSentinelSpecError reports a missing-value field that cannot be tokenized
func NewSentinelSpecError(attribute, field string) *AppError {
	return NewAppError(ErrTypeSentinelSpec, fmt.Sprintf("%s: cannot parse missing-value list %q", attribute, field), nil).
		WithContext("attribute", attribute).
		WithContext("field", field)
}

// NewInvalidInputError reports input the pipeline cannot process
func NewInvalidInputError(message string) *AppError {
	return NewAppError(ErrTypeInvalidInput, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsType reports whether err's chain carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}
