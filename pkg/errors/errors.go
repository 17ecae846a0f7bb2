package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Parameter errors (1xxx)
	ErrCodeInvalidParameter ErrorCode = "ANT1001"

	// Output errors (2xxx)
	ErrCodeWriteFailure ErrorCode = "ANT2001"
	ErrCodeReadFailure  ErrorCode = "ANT2002"

	// Upstream data errors (3xxx)
	ErrCodeMissingDependency ErrorCode = "ANT3001"

	// Configuration errors (4xxx)
	ErrCodeConfigInvalid ErrorCode = "ANT4001"

	// Collaborator errors (5xxx)
	ErrCodeExternalStep ErrorCode = "ANT5001"
	ErrCodeQuery        ErrorCode = "ANT5002"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "ANT9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	var ae *AppError
	if errors.As(err, &ae) {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors

// InvalidParameter reports a bad count or range, raised before any I/O happens
func InvalidParameter(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeInvalidParameter, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value)
}

// WriteFailure reports which destination path could not be written
func WriteFailure(path string, cause error) *AppError {
	appErr := New(ErrCodeWriteFailure, fmt.Sprintf("failed to write %s", path)).
		WithContext("path", path).
		WithSuggestions(
			"Check that the destination directory is writable",
			"Check free disk space",
		)
	appErr.Cause = cause
	return appErr
}

// MissingDependency reports an absent upstream file or table
func MissingDependency(what, path string) *AppError {
	return New(ErrCodeMissingDependency, fmt.Sprintf("%s not found at %s", what, path)).
		WithContext("path", path).
		WithSeverity(SeverityWarning)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'antmart config init' to write a sample configuration",
		)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &AppError{Code: code})
}

// PathOf returns the "path" context value of an AppError, if any
func PathOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if p, ok := appErr.Context["path"].(string); ok {
			return p
		}
	}
	return ""
}
