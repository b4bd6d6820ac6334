package errors

import (
	"errors"
	"fmt"
)

// Error is a game error: a code front ends can branch on and a message
// they can show the player as-is.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && e.Code == t.Code
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newf(code Code, format string, args []any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a message to err, keeping its code when err is already an
// *Error and falling back to CodeInternal otherwise.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return WrapWithCode(err, GetCode(err), message)
}

func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode attaches a message to err under an explicit code.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

func WrapWithCodef(err error, code Code, format string, args ...any) *Error {
	return WrapWithCode(err, code, fmt.Sprintf(format, args...))
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }
func NotFoundf(format string, args ...any) *Error { return newf(CodeNotFound, format, args) }
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }
func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args)
}
func AlreadyExistsf(format string, args ...any) *Error { return newf(CodeAlreadyExists, format, args) }
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }
func FailedPreconditionf(format string, args ...any) *Error {
	return newf(CodeFailedPrecondition, format, args)
}
func Internal(message string) *Error { return New(CodeInternal, message) }
func Internalf(format string, args ...any) *Error { return newf(CodeInternal, format, args) }
func Unavailablef(format string, args ...any) *Error { return newf(CodeUnavailable, format, args) }

// Insufficientf reports a missing resource: gold, materials or quantity.
func Insufficientf(format string, args ...any) *Error { return newf(CodeInsufficient, format, args) }

// InvalidTarget reports an action aimed at the wrong thing: an equipped
// item, the wrong kind, or a level gate.
func InvalidTarget(message string) *Error { return New(CodeInvalidTarget, message) }
func InvalidTargetf(format string, args ...any) *Error {
	return newf(CodeInvalidTarget, format, args)
}
