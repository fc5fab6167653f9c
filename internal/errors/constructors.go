package errors

// Constructors for the error shapes the CLI and server raise most often.

// Config errors

func ConfigNotFound(path string) *PageTimerError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *PageTimerError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *PageTimerError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Page serving errors

func PageNotFound(page string) *PageTimerError {
	return New(CategoryNotFound, SeverityWarning, "page not found").
		WithContext("page", page)
}

func RenderFailed(page string, cause error) *PageTimerError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("page", page)
}

// Storage errors

func StorageError(operation string, cause error) *PageTimerError {
	return Wrap(cause, CategoryStorage, SeverityError, "pageview store operation failed").
		WithContext("operation", operation)
}

// External system errors

func PublishError(subject string, cause error) *PageTimerError {
	return WrapRetryable(cause, CategoryPublish, SeverityWarning, "event publish failed").
		WithContext("subject", subject)
}

func GitLookupError(cause error) *PageTimerError {
	return Wrap(cause, CategoryGit, SeverityInfo, "revision lookup failed")
}

// Probe errors carry warning severity: metric collection failures degrade
// the annotation, never the response.

func ProbeError(source string, cause error) *PageTimerError {
	return Wrap(cause, CategoryProbe, SeverityWarning, "system probe failed").
		WithContext("source", source)
}

func WatchError(cause error) *PageTimerError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "content watch failed")
}

// Runtime errors

func DaemonError(message string) *PageTimerError {
	return New(CategoryDaemon, SeverityError, message)
}

func InternalError(message string, cause error) *PageTimerError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
