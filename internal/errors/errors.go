// Package errors defines the error taxonomy of the analysis pipeline.
//
// Structural errors (file access, parse, validation) are fatal: every
// downstream step depends on a complete, well-typed table. An undefined
// metric is recoverable and is rendered as an explicit marker in report
// output instead of being propagated.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies an error category.
type Code string

const (
	CodeFileAccess      Code = "FILE_ACCESS"
	CodeParse           Code = "PARSE"
	CodeValidation      Code = "VALIDATION"
	CodeUndefinedMetric Code = "UNDEFINED_METRIC"
)

// Error is a coded pipeline error with optional structured details.
type Error struct {
	Code    Code
	Message string
	Details interface{}
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with the given message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ParseDetails describes where in a source file a parse failure occurred.
type ParseDetails struct {
	File string
	Line int
}

// ValidationDetails describes a row that violated its schema after cleaning.
type ValidationDetails struct {
	Table  string
	Row    int
	Column string
	Value  interface{}
}

// NewFileAccess creates a fatal error for a missing or unreadable input file.
func NewFileAccess(path string, err error) *Error {
	return &Error{
		Code:    CodeFileAccess,
		Message: fmt.Sprintf("cannot access input file %s", path),
		Details: path,
		Err:     err,
	}
}

// NewParse creates a fatal error for a row that does not match the expected
// schema. Line is 1-based; 0 means the location is unknown.
func NewParse(file string, line int, err error) *Error {
	return &Error{
		Code:    CodeParse,
		Message: fmt.Sprintf("malformed row in %s", file),
		Details: ParseDetails{File: file, Line: line},
		Err:     err,
	}
}

// NewValidation creates a fatal error for a cleaned row that still violates
// its declared range or type invariant.
func NewValidation(table string, row int, column string, value interface{}) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("table %s row %d: column %s out of range", table, row, column),
		Details: ValidationDetails{Table: table, Row: row, Column: column, Value: value},
	}
}

// ErrUndefinedMetric marks a ratio whose denominator is zero. It is the only
// recoverable error in the taxonomy.
var ErrUndefinedMetric = New(CodeUndefinedMetric, "metric denominator is zero")

// HasCode reports whether err or any error it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
