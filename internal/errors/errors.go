// Package errors provides structured error types for taskbook.
package errors

import (
	stderrors "errors"
	"fmt"
	"math"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for taskbook.
const (
	// Store errors
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeStoreCorrupt     Code = "STORE_CORRUPT"
	CodeStoreWriteFailed Code = "STORE_WRITE_FAILED"

	// Task errors
	CodeStateUnknown  Code = "STATE_UNKNOWN"
	CodeTaskIDInvalid Code = "TASK_ID_INVALID"
	CodeTaskNotFound  Code = "TASK_NOT_FOUND"
	CodeIDExhausted   Code = "TASK_ID_EXHAUSTED"

	// Invocation errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
	CodeUsage         Code = "USAGE"
)

// Category groups error codes for exit code mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryInternal
	CategoryUnavailable
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeStoreUnavailable: CategoryUnavailable,
	CodeStoreCorrupt:     CategoryInternal,
	CodeStoreWriteFailed: CategoryInternal,
	CodeStateUnknown:     CategoryInternal,
	CodeTaskIDInvalid:    CategoryBadRequest,
	CodeTaskNotFound:     CategoryNotFound,
	CodeIDExhausted:      CategoryInternal,
	CodeConfigInvalid:    CategoryBadRequest,
	CodeUsage:            CategoryBadRequest,
}

// Exit codes returned by the taskbook binary.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ExitCode returns the process exit code for a category.
func (c Category) ExitCode() int {
	if c == CategoryBadRequest {
		return ExitUsage
	}
	return ExitError
}

// TaskbookError is the structured error type for taskbook.
type TaskbookError struct {
	Code  Code
	What  string
	Why   string
	Fix   string
	Cause error
}

// Error implements the error interface.
func (e *TaskbookError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TaskbookError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *TaskbookError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category.
func (e *TaskbookError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// ExitCode returns the process exit code for this error.
func (e *TaskbookError) ExitCode() int {
	return e.Category().ExitCode()
}

// Is reports whether target is a TaskbookError with the same code.
func (e *TaskbookError) Is(target error) bool {
	t, ok := target.(*TaskbookError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *TaskbookError) WithCause(err error) *TaskbookError {
	return &TaskbookError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrStoreUnavailable returns an error when the backing store cannot be
// opened, read or reached.
func ErrStoreUnavailable(path, why string) *TaskbookError {
	return &TaskbookError{
		Code: CodeStoreUnavailable,
		What: fmt.Sprintf("task store %s is unavailable", path),
		Why:  why,
		Fix:  "Check that the path exists and is readable and writable, or point --path elsewhere",
	}
}

// ErrStoreCorrupt returns an error when persisted data cannot be decoded.
func ErrStoreCorrupt(path, why string) *TaskbookError {
	return &TaskbookError{
		Code: CodeStoreCorrupt,
		What: fmt.Sprintf("task store %s is corrupt", path),
		Why:  why,
		Fix:  "Repair or move the file aside; a missing file is recreated empty on the next run",
	}
}

// ErrStoreWriteFailed returns an error when the store cannot be persisted.
func ErrStoreWriteFailed(path string) *TaskbookError {
	return &TaskbookError{
		Code: CodeStoreWriteFailed,
		What: fmt.Sprintf("failed to write task store %s", path),
		Fix:  "Check free disk space and permissions on the store directory",
	}
}

// ErrStateUnknown returns an error for a state value outside Doing, Done, Dead.
func ErrStateUnknown(value string) *TaskbookError {
	return &TaskbookError{
		Code: CodeStateUnknown,
		What: fmt.Sprintf("unknown task state %q", value),
		Why:  "State must be one of Doing, Done, Dead",
	}
}

// ErrTaskIDInvalid returns an error for a task id that is not an unsigned integer.
func ErrTaskIDInvalid(value string) *TaskbookError {
	return &TaskbookError{
		Code: CodeTaskIDInvalid,
		What: fmt.Sprintf("invalid task id %q", value),
		Why:  "Task ids are non-negative integers",
		Fix:  "Run 'taskbook' to list tasks and their ids",
	}
}

// ErrTaskNotFound returns an error when a task doesn't exist.
func ErrTaskNotFound(id uint64) *TaskbookError {
	return &TaskbookError{
		Code: CodeTaskNotFound,
		What: fmt.Sprintf("task %d not found", id),
		Fix:  "Run 'taskbook' to list tasks and their ids",
	}
}

// ErrIDExhausted returns an error when the id counter cannot advance.
func ErrIDExhausted() *TaskbookError {
	return &TaskbookError{
		Code: CodeIDExhausted,
		What: "no task ids left",
		Why:  fmt.Sprintf("the id counter has reached %d", uint64(math.MaxUint64)),
		Fix:  "Start a new task book with --path",
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *TaskbookError {
	return &TaskbookError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check ~/.taskbook/config.yaml, TASKBOOK_* environment variables and flags",
	}
}

// ErrUsage returns an error for an invalid combination of flags or arguments.
func ErrUsage(what string) *TaskbookError {
	return &TaskbookError{
		Code: CodeUsage,
		What: what,
		Fix:  "Run 'taskbook --help' for usage",
	}
}

// AsTaskbookError attempts to convert an error to a TaskbookError.
// Returns nil if the error chain holds no TaskbookError.
func AsTaskbookError(err error) *TaskbookError {
	var tbErr *TaskbookError
	if stderrors.As(err, &tbErr) {
		return tbErr
	}
	return nil
}

// ExitCode returns the exit code for any error: 0 for nil, the category code
// for a TaskbookError anywhere in the chain, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if tbErr := AsTaskbookError(err); tbErr != nil {
		return tbErr.ExitCode()
	}
	return ExitError
}
