package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError when there is one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, or
// "UNKNOWN" when there is none.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// Message returns the human-readable text of err without its wrapped causes
// when it is an AppError.
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Predefined error codes
const (
	CodeFileSelectionCancelled = "FILE_SELECTION_CANCELLED"
	CodeUnsupportedFileType    = "UNSUPPORTED_FILE_TYPE"
	CodeFileNotFound           = "FILE_NOT_FOUND"
	CodeParseFailure           = "PARSE_FAILURE"
	CodeEmptyInput             = "EMPTY_INPUT"
	CodeColumnResolution       = "COLUMN_RESOLUTION_ERROR"
	CodeNoValidData            = "NO_VALID_DATA"
	CodeOutputWrite            = "OUTPUT_WRITE_ERROR"
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeInternalError          = "INTERNAL_ERROR"
)

// Common error constructors
func FileSelectionCancelled() *AppError {
	return New(CodeFileSelectionCancelled, "File selection cancelled.")
}

func UnsupportedFileType(ext string) *AppError {
	return Newf(CodeUnsupportedFileType, "Unsupported file type: %s", ext)
}

func FileNotFound(path string) *AppError {
	return Newf(CodeFileNotFound, "File not found at %s", path)
}

func ParseFailure(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: fmt.Sprintf("Could not parse '%s'", path),
		Cause:   cause,
	}
}

func EmptyInput() *AppError {
	return New(CodeEmptyInput, "The selected file is empty.")
}

func ColumnResolution(message string) *AppError {
	return New(CodeColumnResolution, message)
}

func NoValidData() *AppError {
	return New(CodeNoValidData, "No valid data could be extracted from the file.")
}

func OutputWrite(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeOutputWrite,
		Message: fmt.Sprintf("Error writing to CSV file %s", path),
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
