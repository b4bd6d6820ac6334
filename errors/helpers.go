package errors

import (
	"errors"
)

func As(err error, target **Error) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns CodeOK for nil and CodeInternal for errors outside this
// package.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMessage returns the player-facing message, or err.Error() for foreign
// errors.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool           { return GetCode(err) == CodeNotFound }
func IsInsufficient(err error) bool       { return GetCode(err) == CodeInsufficient }
func IsInvalidTarget(err error) bool      { return GetCode(err) == CodeInvalidTarget }
func IsFailedPrecondition(err error) bool { return GetCode(err) == CodeFailedPrecondition }
func IsDataLoss(err error) bool           { return GetCode(err) == CodeDataLoss }
