package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Exit codes grouped by failure origin. Wrapper scripts key on these.
const (
	exitGeneral  = 1
	exitUsage    = 2
	exitConfig   = 7
	exitExternal = 8
	exitInternal = 10
	exitContent  = 11
	exitRuntime  = 12
)

// CLIErrorAdapter turns errors into stderr lines and exit codes.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter builds an adapter. Verbose mode prints full error
// chains and logs every failure. A nil logger falls back to the process
// default.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor maps an error onto the process exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	pte, ok := err.(*PageTimerError)
	if !ok {
		return exitGeneral
	}

	switch pte.Category {
	case CategoryValidation:
		return exitUsage
	case CategoryConfig:
		return exitConfig
	case CategoryNetwork, CategoryGit, CategoryPublish:
		return exitExternal
	case CategoryRender, CategoryStorage, CategoryFileSystem:
		return exitContent
	case CategoryDaemon, CategoryRuntime, CategoryProbe:
		return exitRuntime
	case CategoryInternal:
		return exitInternal
	default:
		return exitGeneral
	}
}

// FormatError renders err for the terminal. Config and validation failures
// print their bare message; other classified errors keep a category prefix;
// verbose mode prints the whole chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	pte, ok := err.(*PageTimerError)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	if a.verbose {
		return pte.Error()
	}
	switch pte.Category {
	case CategoryConfig, CategoryValidation:
		return pte.Message
	default:
		return fmt.Sprintf("%s: %s", pte.Category, pte.Message)
	}
}

// HandleError prints err and exits with its code. A nil err is a no-op so
// command results can be passed through unconditionally.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintln(os.Stderr, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

// shouldLog keeps routine user mistakes out of the log unless verbose.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if pte, ok := err.(*PageTimerError); ok {
		return pte.Category == CategoryInternal ||
			pte.Category == CategoryRuntime ||
			pte.Severity == SeverityFatal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	pte, ok := err.(*PageTimerError)
	if !ok {
		a.logger.Error("unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(pte.Category))}
	if pte.Retryable {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	a.logger.LogAttrs(context.Background(), severityLevel(pte.Severity), pte.Message, attrs...)
}
