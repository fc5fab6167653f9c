package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestPageTimerError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PageTimerError
		want string
	}{
		{
			name: "without cause",
			err:  New(CategoryRender, SeverityError, "template execute failed"),
			want: "render (error): template execute failed",
		},
		{
			name: "with cause",
			err:  Wrap(fmt.Errorf("disk I/O error"), CategoryStorage, SeverityError, "insert failed"),
			want: "storage (error): insert failed: disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("no such table: views")
	err := Wrap(cause, CategoryStorage, SeverityError, "query failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
	if New(CategoryDaemon, SeverityError, "plain").Unwrap() != nil {
		t.Error("Unwrap on a causeless error should be nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryStorage, SeverityWarning, "insert failed").
		WithContext("operation", "record_view").
		WithContext("page", "index")

	if err.Context["operation"] != "record_view" {
		t.Errorf("Context[operation] = %v, want record_view", err.Context["operation"])
	}
	if err.Context["page"] != "index" {
		t.Errorf("Context[page] = %v, want index", err.Context["page"])
	}
}

func TestCategoryPredicates(t *testing.T) {
	probeErr := New(CategoryProbe, SeverityWarning, "loadavg unreadable")
	plain := fmt.Errorf("plain failure")

	if !IsCategory(probeErr, CategoryProbe) {
		t.Error("IsCategory should match the error's own category")
	}
	if IsCategory(probeErr, CategoryGit) {
		t.Error("IsCategory should reject a different category")
	}
	if IsCategory(plain, CategoryProbe) {
		t.Error("IsCategory should reject unclassified errors")
	}
	if IsCategory(nil, CategoryProbe) {
		t.Error("IsCategory should reject nil")
	}

	if got := GetCategory(probeErr); got != CategoryProbe {
		t.Errorf("GetCategory = %v, want %v", got, CategoryProbe)
	}
	if got := GetCategory(plain); got != CategoryInternal {
		t.Errorf("GetCategory on unclassified = %v, want %v", got, CategoryInternal)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Retryable(CategoryNetwork, SeverityWarning, "broker timeout")) {
		t.Error("Retryable errors should report retryable")
	}
	if !IsRetryable(WrapRetryable(fmt.Errorf("i/o timeout"), CategoryPublish, SeverityWarning, "publish failed")) {
		t.Error("WrapRetryable errors should report retryable")
	}
	if IsRetryable(New(CategoryConfig, SeverityFatal, "port out of range")) {
		t.Error("plain classified errors should not report retryable")
	}
	if IsRetryable(fmt.Errorf("plain failure")) {
		t.Error("unclassified errors should not report retryable")
	}
}

func TestConstructors(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/etc/pagetimer/config.yaml")
		if err.Category != CategoryConfig || err.Severity != SeverityFatal {
			t.Errorf("got %s (%s), want config (fatal)", err.Category, err.Severity)
		}
		if err.Context["path"] != "/etc/pagetimer/config.yaml" {
			t.Errorf("Context[path] = %v", err.Context["path"])
		}
	})

	t.Run("ConfigRequired", func(t *testing.T) {
		err := ConfigRequired("events.url")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Context["field"] != "events.url" {
			t.Errorf("Context[field] = %v, want events.url", err.Context["field"])
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("server.port", "out of range")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "server.port" || err.Context["reason"] != "out of range" {
			t.Errorf("Context = %v", err.Context)
		}
	})

	t.Run("PublishError", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := PublishError("pagetimer.pageview", cause)
		if err.Category != CategoryPublish {
			t.Errorf("Category = %v, want %v", err.Category, CategoryPublish)
		}
		if !err.Retryable {
			t.Error("publish failures should be retryable")
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("cause %v should survive wrapping", cause)
		}
	})

	t.Run("ProbeError", func(t *testing.T) {
		err := ProbeError("loadavg", fmt.Errorf("open /proc/loadavg: no such file"))
		if err.Category != CategoryProbe || err.Severity != SeverityWarning {
			t.Errorf("got %s (%s), want probe (warning)", err.Category, err.Severity)
		}
		if err.Context["source"] != "loadavg" {
			t.Errorf("Context[source] = %v, want loadavg", err.Context["source"])
		}
	})
}
