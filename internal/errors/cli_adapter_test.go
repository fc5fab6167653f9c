package errors

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: 0,
		},
		{
			name:     "validation error",
			err:      New(CategoryValidation, SeverityFatal, "invalid input"),
			expected: 2,
		},
		{
			name:     "config error",
			err:      New(CategoryConfig, SeverityFatal, "bad config"),
			expected: 7,
		},
		{
			name:     "publish error",
			err:      PublishError("pagetimer.pageview", fmt.Errorf("connection refused")),
			expected: 8,
		},
		{
			name:     "storage error",
			err:      StorageError("record_view", fmt.Errorf("database locked")),
			expected: 11,
		},
		{
			name:     "daemon error",
			err:      DaemonError("already started"),
			expected: 12,
		},
		{
			name:     "internal error",
			err:      InternalError("unreachable", nil),
			expected: 10,
		},
		{
			name:     "not found falls back to general",
			err:      PageNotFound("missing"),
			expected: 1,
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "config error prints bare message",
			err:      New(CategoryConfig, SeverityFatal, "configuration file not found"),
			expected: "configuration file not found",
		},
		{
			name:     "other categories carry a prefix",
			err:      New(CategoryStorage, SeverityError, "insert failed"),
			expected: "storage: insert failed",
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			expected: "Error: unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.FormatError(tt.err)
			if got != tt.expected {
				t.Errorf("FormatError() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_VerboseFormat(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, slog.Default())

	err := Wrap(fmt.Errorf("no such table"), CategoryStorage, SeverityError, "query failed")
	got := adapter.FormatError(err)

	if !strings.Contains(got, "storage (error)") {
		t.Errorf("verbose FormatError() = %q, want category and severity", got)
	}
	if !strings.Contains(got, "no such table") {
		t.Errorf("verbose FormatError() = %q, want wrapped cause", got)
	}
}

// customError stands in for errors produced outside this package.
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
