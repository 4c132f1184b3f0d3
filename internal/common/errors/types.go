// Package errors provides the structured error taxonomy of the dispatch
// engine. Every failure surfaced by the engine is an *AppError carrying a
// type, a message, and optionally a cause and context values.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType classifies an engine failure.
type ErrorType string

const (
	// ErrTypeNotFound means no route matched an inbound web request. It is
	// surfaced as a 404 response and never thrown past the dispatcher.
	ErrTypeNotFound ErrorType = "not_found"
	// ErrTypeHandler means a matched handler (or parameter binding after the
	// route was found) failed. Surfaced as a 500 response.
	ErrTypeHandler ErrorType = "handler"
	// ErrTypeMalformedBody means a body declared as JSON failed to parse.
	// Recovered locally; processing continues with the raw text.
	ErrTypeMalformedBody ErrorType = "malformed_body"
	// ErrTypeResolution means a dependency position could not be resolved to
	// a constructible registration. Fatal for that resolution call.
	ErrTypeResolution ErrorType = "resolution"
	// ErrTypeCyclicDependency means a constructor dependency chain loops
	// back onto itself. Fatal for that resolution call.
	ErrTypeCyclicDependency ErrorType = "cyclic_dependency"
	// ErrTypeUnregistered means a constructed instance is neither a
	// recognized controller nor explicitly marked injectable. Non-fatal.
	ErrTypeUnregistered ErrorType = "unregistered"
	// ErrTypeConfig represents configuration errors.
	ErrTypeConfig ErrorType = "config"
)

// AppError represents a structured engine error.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds a context value to the error and returns it for chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == errType
}

// NotFoundError creates a new not-found error for the given resource.
func NotFoundError(resource string) *AppError {
	return &AppError{
		Type:    ErrTypeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// HandlerError creates a new handler failure error.
func HandlerError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeHandler,
		Message: msg,
		Cause:   cause,
	}
}

// MalformedBodyError creates a new malformed-body error.
func MalformedBodyError(cause error) *AppError {
	return &AppError{
		Type:    ErrTypeMalformedBody,
		Message: "request body declared as JSON failed to parse",
		Cause:   cause,
	}
}

// ResolutionError creates a new dependency resolution error.
func ResolutionError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeResolution,
		Message: msg,
	}
}

// CyclicDependencyError creates a new constructor cycle error.
func CyclicDependencyError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeCyclicDependency,
		Message: msg,
	}
}

// UnregisteredError creates a new unregistered-class warning error.
func UnregisteredError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeUnregistered,
		Message: msg,
	}
}

// ConfigError creates a new configuration error.
func ConfigError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeConfig,
		Message: msg,
	}
}
