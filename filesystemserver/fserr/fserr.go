// Package fserr defines the error taxonomy shared by the sandboxed
// filesystem components and the MCP handlers that surface them.
package fserr

import (
	"errors"
	"fmt"
	"time"
)

// Code identifies a class of error for programmatic handling.
type Code string

const (
	CodePathTraversal             Code = "path_traversal"
	CodeDirectoryNotFound         Code = "directory_not_found"
	CodeNotADirectory             Code = "not_a_directory"
	CodeFileNotFound              Code = "file_not_found"
	CodeCannotReadDirectoryAsFile Code = "cannot_read_directory_as_file"
	CodePermissionDenied          Code = "permission_denied"
	CodeFileTooLarge              Code = "file_too_large"
	CodeTotalSizeExceeded         Code = "total_size_exceeded"
	CodeOperationTimeout          Code = "operation_timeout"
	CodeInvalidURI                Code = "invalid_uri"
	CodeUnknownOperation          Code = "unknown_operation"
	CodeMissingParameter          Code = "missing_parameter"
	CodeInvalidPattern            Code = "invalid_pattern"
	CodeInternalError             Code = "internal_error"
)

var codeNumbers = map[Code]int{
	CodePathTraversal:             1001,
	CodeFileNotFound:              2001,
	CodeDirectoryNotFound:         2002,
	CodeNotADirectory:             2003,
	CodeCannotReadDirectoryAsFile: 2004,
	CodePermissionDenied:          2005,
	CodeFileTooLarge:              3001,
	CodeTotalSizeExceeded:         3002,
	CodeOperationTimeout:          3003,
	CodeInvalidURI:                4001,
	CodeUnknownOperation:          4002,
	CodeMissingParameter:          4003,
	CodeInvalidPattern:            4004,
	CodeInternalError:             5000,
}

var codeMessages = map[Code]string{
	CodePathTraversal:             "path traversal detected: access outside root directory is not allowed",
	CodeFileNotFound:              "file not found",
	CodeDirectoryNotFound:         "directory not found",
	CodeNotADirectory:             "path is not a directory",
	CodeCannotReadDirectoryAsFile: "cannot read directory as file",
	CodePermissionDenied:          "permission denied",
	CodeFileTooLarge:              "file size exceeds maximum allowed size",
	CodeTotalSizeExceeded:         "total size exceeds maximum allowed size",
	CodeOperationTimeout:          "operation timed out",
	CodeInvalidURI:                "invalid URI format",
	CodeUnknownOperation:          "unknown operation",
	CodeMissingParameter:          "required parameter missing",
	CodeInvalidPattern:            "invalid pattern",
	CodeInternalError:             "internal server error",
}

// Number returns the stable numeric form of the code reported to clients.
func (c Code) Number() int {
	if n, ok := codeNumbers[c]; ok {
		return n
	}
	return codeNumbers[CodeInternalError]
}

// DefaultMessage returns the generic message for the code.
func (c Code) DefaultMessage() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return "unknown error"
}

// Sentinels for use with errors.Is. Every error type in this package
// matches the sentinel carrying the same code.
var (
	ErrPathTraversal             = &Error{Code: CodePathTraversal}
	ErrDirectoryNotFound         = &Error{Code: CodeDirectoryNotFound}
	ErrNotADirectory             = &Error{Code: CodeNotADirectory}
	ErrFileNotFound              = &Error{Code: CodeFileNotFound}
	ErrCannotReadDirectoryAsFile = &Error{Code: CodeCannotReadDirectoryAsFile}
	ErrPermissionDenied          = &Error{Code: CodePermissionDenied}
	ErrFileTooLarge              = &Error{Code: CodeFileTooLarge}
	ErrTotalSizeExceeded         = &Error{Code: CodeTotalSizeExceeded}
	ErrOperationTimeout          = &Error{Code: CodeOperationTimeout}
	ErrInvalidURI                = &Error{Code: CodeInvalidURI}
	ErrUnknownOperation          = &Error{Code: CodeUnknownOperation}
	ErrMissingParameter          = &Error{Code: CodeMissingParameter}
	ErrInvalidPattern            = &Error{Code: CodeInvalidPattern}
	ErrInternal                  = &Error{Code: CodeInternalError}
)

// Error wraps an underlying error with a code and message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Code.DefaultMessage()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a sentinel with the same code.
func (e *Error) Is(target error) bool {
	return matchCode(e.Code, target)
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates a new coded error with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new coded error that wraps an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// LimitError reports a size ceiling violation with both the observed value
// and the configured bound.
type LimitError struct {
	Code     Code
	Observed int64
	Limit    int64
}

func (e *LimitError) Error() string {
	switch e.Code {
	case CodeFileTooLarge:
		return fmt.Sprintf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", e.Observed, e.Limit)
	case CodeTotalSizeExceeded:
		return fmt.Sprintf("total size (%d bytes) exceeds maximum allowed size (%d bytes)", e.Observed, e.Limit)
	}
	return fmt.Sprintf("%s (%d > %d)", e.Code.DefaultMessage(), e.Observed, e.Limit)
}

func (e *LimitError) Is(target error) bool { return matchCode(e.Code, target) }

// ErrorCode implements Coder.
func (e *LimitError) ErrorCode() Code { return e.Code }

// TimeoutError reports that an operation did not finish within its bound.
type TimeoutError struct {
	Operation string
	Bound     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out after %dms", e.Operation, e.Bound.Milliseconds())
}

func (e *TimeoutError) Is(target error) bool { return matchCode(CodeOperationTimeout, target) }

// ErrorCode implements Coder.
func (e *TimeoutError) ErrorCode() Code { return CodeOperationTimeout }

// Coder is implemented by every error in this package.
type Coder interface {
	ErrorCode() Code
}

// CodeOf returns the code of the first coded error in err's chain, or
// CodeInternalError when there is none.
func CodeOf(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeInternalError
}

func matchCode(code Code, target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	// only bare sentinels match by code
	return t.Message == "" && t.Err == nil && t.Code == code
}
