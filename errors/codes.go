package errors

// Code classifies an Error.
type Code string

const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"

	// Game rule violations.
	CodeInsufficient  Code = "INSUFFICIENT"   // not enough gold, materials, or quantity
	CodeInvalidTarget Code = "INVALID_TARGET" // equipped item, wrong kind, level gate
)

func (c Code) String() string {
	return string(c)
}

// Blocking reports whether the code is a rule violation the player caused
// rather than a system failure.
func (c Code) Blocking() bool {
	switch c {
	case CodeInsufficient, CodeInvalidTarget, CodeNotFound,
		CodeInvalidArgument, CodeFailedPrecondition, CodeAlreadyExists:
		return true
	default:
		return false
	}
}
