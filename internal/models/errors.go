package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Declaration and registration
	ErrUsage ErrorType = "usage_error"

	// Plugin resolution
	ErrLoad               ErrorType = "load_error"
	ErrExecutableNotFound ErrorType = "executable_not_found"

	// Pre-execution
	ErrToolInvalid ErrorType = "tool_invalid"

	// Execution phase
	ErrExecutionFailed  ErrorType = "execution_failed"
	ErrExecutionTimeout ErrorType = "execution_timeout"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)

// Error lets an ErrorType be used as an errors.Is target.
func (t ErrorType) Error() string {
	return string(t)
}

// UsageError reports a programming or declaration-time mistake such as an
// unknown parameter type or a registration without a name.
type UsageError struct {
	Message string
}

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	if e == nil {
		return ""
	}
	return "usage error: " + e.Message
}

// Type returns ErrUsage.
func (e *UsageError) Type() ErrorType { return ErrUsage }

func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// LoadError reports that none of the attempted names resolved to a
// registered entry.
type LoadError struct {
	Kind  string   // registry kind, e.g. "executable"
	Names []string // candidates attempted, in order
	Err   error    // requirer failures, if any
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("load error: no %s registered for [%s]", e.kind(), strings.Join(e.Names, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) kind() string {
	if e.Kind == "" {
		return "feature"
	}
	return e.Kind
}

// Type returns ErrLoad.
func (e *LoadError) Type() ErrorType { return ErrLoad }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func (e *LoadError) Unwrap() error { return e.Err }

// TypeOf returns the ErrorType carried by err. An ErrorType wrapped into the
// chain takes precedence over errors exposing a Type method; anything else is
// ErrInternalError.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed
	}
	var categorized interface{ Type() ErrorType }
	if errors.As(err, &categorized) {
		return categorized.Type()
	}
	return ErrInternalError
}
