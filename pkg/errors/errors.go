// Package errors provides the coded error type used across rah.
//
// Every failure that crosses a package boundary carries an ErrorCode so that
// callers (and tests) can branch on the category rather than on message text.
// The categories follow the run model of the resolver: pre-flight failures
// abort the invocation, everything else degrades to a per-dependency outcome.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCancelled    ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Execution context errors
	ErrExecContext ErrorCode = "EXEC_CONTEXT"
	ErrPermission  ErrorCode = "PERMISSION"

	// Package database errors
	ErrDatabase            ErrorCode = "DATABASE"
	ErrDatabaseUnavailable ErrorCode = "DATABASE_UNAVAILABLE"

	// Resolution errors
	ErrNetwork            ErrorCode = "NETWORK"
	ErrNetworkUnreachable ErrorCode = "NETWORK_UNREACHABLE"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAmbiguous          ErrorCode = "AMBIGUOUS"
	ErrVersionParse       ErrorCode = "VERSION_PARSE"
	ErrNotApplicable      ErrorCode = "NOT_APPLICABLE"
	ErrUnresolved         ErrorCode = "UNRESOLVED"

	// Local satisfaction check errors
	ErrDepsCheck ErrorCode = "DEPS_CHECK"
)

// RahError represents a structured error with code and details
type RahError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RahError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RahError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RahError) Is(target error) bool {
	var targetErr *RahError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RahError with the given code and message
func New(code ErrorCode, message string) *RahError {
	return &RahError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RahError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RahError {
	return &RahError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RahError
func Wrap(err error, code ErrorCode, message string) *RahError {
	if err == nil {
		return nil
	}
	return &RahError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RahError {
	if err == nil {
		return nil
	}
	return &RahError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RahError) WithDetail(key string, value interface{}) *RahError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RahError) WithDetails(details map[string]interface{}) *RahError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rahErr *RahError
	if errors.As(err, &rahErr) {
		return rahErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RahError
func GetErrorCode(err error) ErrorCode {
	var rahErr *RahError
	if errors.As(err, &rahErr) {
		return rahErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RahError
func GetErrorDetails(err error) map[string]interface{} {
	var rahErr *RahError
	if errors.As(err, &rahErr) {
		return rahErr.Details
	}
	return nil
}

// IsFatal reports whether an error aborts the whole invocation. Only failures
// that prevent a run context from being established are fatal; per-dependency
// faults are folded into resolution outcomes instead.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid,
		ErrExecContext, ErrPermission,
		ErrDatabase, ErrNetworkUnreachable,
		ErrCancelled, ErrInternal, ErrDepsCheck:
		return true
	}
	return false
}
