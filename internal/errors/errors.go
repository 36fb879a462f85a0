package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the harness.
// These codes are used to signal the outcome of the run to the OS. A failed
// experiment is deliberately NOT an exit-code condition: individual failures
// are recorded in the report, and only run-level problems (bad configuration,
// a report that could not be persisted, cancellation) change the exit status.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorReport   = 2   // Indicates the report could not be persisted.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the harness cannot proceed due to incorrect user
// input; no experiment runs when construction of the configuration fails.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// UnknownExperimentError signals that a requested experiment identifier is not
// present in the registry. The orchestrator records it as a failed outcome for
// that identifier; it never aborts the remaining experiments.
type UnknownExperimentError struct {
	// ID is the unrecognized experiment identifier.
	ID string
}

// Error returns a formatted message naming the unknown identifier.
func (e UnknownExperimentError) Error() string {
	return fmt.Sprintf("unknown experiment %q", e.ID)
}

// ExperimentError encapsulates a failure raised during an experiment's
// execution while preserving the original cause. This allows structured
// inspection of what went wrong inside the runner.
type ExperimentError struct {
	// ID is the identifier of the experiment that failed.
	ID string
	// Cause is the underlying error that triggered this experiment error.
	Cause error
}

// Error returns a formatted message including the underlying cause.
func (e ExperimentError) Error() string {
	return fmt.Sprintf("experiment %q failed: %v", e.ID, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ExperimentError) Unwrap() error { return e.Cause }

// TimeoutError represents an experiment exceeding its per-experiment time
// budget. It captures the operation name and the duration limit that was
// exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ReportWriteError represents a failure to persist the run report. The
// experiment outcomes remain in memory, but the persisted artifact is missing,
// so this class of error is surfaced loudly with a non-zero exit code.
type ReportWriteError struct {
	// Path is the destination the report could not be written to.
	Path string
	// Cause is the underlying I/O error.
	Cause error
}

// Error returns a formatted message describing the write failure.
func (e ReportWriteError) Error() string {
	return fmt.Sprintf("failed to write report to %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e ReportWriteError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsUnknownExperiment reports whether the error chain contains an
// UnknownExperimentError.
func IsUnknownExperiment(err error) bool {
	var ue UnknownExperimentError
	return errors.As(err, &ue)
}

// IsConfigError reports whether the error chain contains a ConfigError or a
// ValidationError.
func IsConfigError(err error) bool {
	var ce ConfigError
	var ve ValidationError
	return errors.As(err, &ce) || errors.As(err, &ve)
}
