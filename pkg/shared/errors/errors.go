package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by analyzers, the review engine and the CLI.
var (
	ErrPathNotFound      = errors.New("path not found")
	ErrReportSealed      = errors.New("report is sealed and cannot be modified")
	ErrSummaryAlreadySet = errors.New("ai summary is already set")
)

// ToolError reports an external analysis tool that exited with a status outside of its success allow-list.
type ToolError struct {
	Tool       string
	ExitCode   int
	Diagnostic string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitCode, e.Diagnostic)
}

// NewToolError creates a ToolError, falling back to a generic diagnostic when the tool printed nothing.
func NewToolError(tool string, exitCode int, diagnostic string) *ToolError {
	if diagnostic == "" {
		diagnostic = fmt.Sprintf("%s failed", tool)
	}
	return &ToolError{
		Tool:       tool,
		ExitCode:   exitCode,
		Diagnostic: diagnostic,
	}
}

// ValidationError is returned when user input is rejected before any analysis starts.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RemoteError wraps a failed request to a remote repository API.
type RemoteError struct {
	Provider   string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// CommandError carries the process exit code for an error surfaced by a CLI command.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}

// ExitCode maps an error to a process exit code: 0 for nil, 2 for validation errors and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return 2
	}
	return 1
}
