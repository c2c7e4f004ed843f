package errs

import (
	"errors"
)

// Code is a verifier error code.
type Code string

const (
	InvalidArgument Code = "invalid_argument"
	// SetupFailed marks a run that could not reach its first check; it aborts the run.
	SetupFailed Code = "setup_failed"
	// AssertionFailed marks an expected marker or style that was missing or wrong.
	AssertionFailed Code = "assertion_failed"
	Unavailable     Code = "unavailable"
	Internal        Code = "internal"
)

// Error is a coded verifier error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// MessageOf returns the coded message without the wrapped cause.
// Untyped errors keep their own text so the browser layer's native
// error message reaches the operator.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return err.Error()
}

// ExitCode maps an error to a process exit status. A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case SetupFailed:
		return 2
	case Unavailable:
		return 3
	default:
		// InvalidArgument, AssertionFailed and untyped errors.
		return 1
	}
}
