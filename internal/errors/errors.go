package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig   = 4   // Indicates a configuration or usage error.
	ExitErrorInput    = 5   // Indicates an unreadable or malformed input file.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a configuration error, such as an unknown strategy
// or a process count too small for the chosen strategy. It is raised before
// any message is exchanged between ranks.
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

// InputError reports a problem with an operand or output file. Path always
// names the offending file.
type InputError struct {
	// Path is the file that could not be read, parsed or written.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error returns the file name followed by the cause.
func (e InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e InputError) Unwrap() error { return e.Cause }

// NewInputError creates an InputError for path with a formatted cause.
func NewInputError(path, format string, a ...any) error {
	return InputError{Path: path, Cause: fmt.Errorf(format, a...)}
}

// ProtocolError wraps a failure of a message exchange performed by one rank.
// It carries the rank and the protocol step so a failure in a multi-process
// run can be traced back to the participant that observed it.
type ProtocolError struct {
	// Rank is the rank that observed the failure.
	Rank int
	// Op names the protocol step (e.g. "send carry").
	Op string
	// Cause is the underlying transport or context error.
	Cause error
}

// Error returns a message naming the rank and step.
func (e ProtocolError) Error() string {
	return fmt.Sprintf("rank %d: %s: %v", e.Rank, e.Op, e.Cause)
}

// Unwrap returns the underlying cause, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ProtocolError) Unwrap() error { return e.Cause }

// TimeoutError represents a run timeout. It captures the operation
// name and the duration limit that was exceeded.
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

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the process exit status.
//
// Parameters:
//   - err: The error returned by a run, possibly nil.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr ConfigError
	var inErr InputError
	var toErr TimeoutError
	switch {
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &inErr):
		return ExitErrorInput
	case errors.As(err, &toErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	}
	return ExitErrorGeneric
}
