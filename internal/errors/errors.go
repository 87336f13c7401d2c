// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeFormat indicates a malformed S-parameter label
	TypeFormat Type = "FORMAT_ERROR"

	// TypeDomain indicates a value outside a mathematically required domain
	TypeDomain Type = "DOMAIN_ERROR"

	// TypePort indicates a port index beyond the network's port count
	TypePort Type = "PORT_ERROR"

	// TypeValidation indicates a model validation error
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeParsing indicates a file or definition parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStorage indicates a storage operation error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeNotFound indicates an entity was not found
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Format creates a malformed-label error
func Format(message string) *Error {
	return New(TypeFormat, message)
}

// Formatf creates a formatted malformed-label error
func Formatf(format string, args ...interface{}) *Error {
	return Newf(TypeFormat, format, args...)
}

// Domain creates a math domain error
func Domain(message string) *Error {
	return New(TypeDomain, message)
}

// Port creates an invalid-port error
func Port(port, nPorts int) *Error {
	return Newf(TypePort, "invalid port %d for network with %d ports", port, nPorts)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(TypeValidation, message)
}

// Validationf creates a formatted validation error
func Validationf(format string, args ...interface{}) *Error {
	return Newf(TypeValidation, format, args...)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Storage creates a storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// NotFound creates a not found error
func NotFound(entityType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", entityType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// IsSkippable distinguishes expected per-label evaluation failures from
// unexpected ones. Format and port errors are routine when a port
// configuration names ports the measured network does not have; callers
// log them quietly and log anything else loudly. Either way the failure
// costs only that label's result.
func IsSkippable(err error) bool {
	return IsType(err, TypeFormat) || IsType(err, TypePort)
}
