// Package errors defines the classified error type shared by the CLI and
// HTTP surfaces. Every error carries a category for dispatch, a severity
// for logging, and optional structured context.
package errors

import (
	"fmt"
	"log/slog"
)

// ErrorCategory routes an error to an exit code or HTTP status.
type ErrorCategory string

const (
	// Configuration and input
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// External systems
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
	CategoryPublish ErrorCategory = "publish"

	// Rendering and storage
	CategoryRender     ErrorCategory = "render"
	CategoryStorage    ErrorCategory = "storage"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Process and infrastructure
	CategoryProbe    ErrorCategory = "probe"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity weights an error for logging and display.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// severityLevel maps a severity onto its slog level. Fatal logs as error;
// slog has no fatal level.
func severityLevel(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ContextFields carries structured key/value context on an error.
type ContextFields map[string]any

// PageTimerError is the classified error. Adapters read the fields
// directly; call sites build instances through the package constructors.
type PageTimerError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

func (e *PageTimerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *PageTimerError) Unwrap() error { return e.Cause }

// WithContext attaches one context field and returns the error for chaining.
func (e *PageTimerError) WithContext(key string, value any) *PageTimerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New builds a non-retryable classified error.
func New(category ErrorCategory, severity ErrorSeverity, message string) *PageTimerError {
	return &PageTimerError{Category: category, Severity: severity, Message: message}
}

// Wrap builds a non-retryable classified error around a cause.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PageTimerError {
	e := New(category, severity, message)
	e.Cause = err
	return e
}

// Retryable builds a classified error the caller may retry.
func Retryable(category ErrorCategory, severity ErrorSeverity, message string) *PageTimerError {
	e := New(category, severity, message)
	e.Retryable = true
	return e
}

// WrapRetryable builds a retryable classified error around a cause.
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *PageTimerError {
	e := Wrap(err, category, severity, message)
	e.Retryable = true
	return e
}

// IsCategory reports whether err is a classified error of the given
// category.
func IsCategory(err error, category ErrorCategory) bool {
	pte, ok := err.(*PageTimerError)
	return ok && pte.Category == category
}

// IsRetryable reports whether err is a classified error marked retryable.
func IsRetryable(err error) bool {
	pte, ok := err.(*PageTimerError)
	return ok && pte.Retryable
}

// GetCategory returns err's category. Unclassified errors count as
// internal.
func GetCategory(err error) ErrorCategory {
	if pte, ok := err.(*PageTimerError); ok {
		return pte.Category
	}
	return CategoryInternal
}
