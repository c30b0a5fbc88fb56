package apply

import "fmt"

// ErrorCode identifies a class of command-application failure.
type ErrorCode string

const (
	ErrBadPayload    ErrorCode = "APPLY_ERR_BAD_PAYLOAD"
	ErrTooManySplines ErrorCode = "APPLY_ERR_TOO_MANY_SPLINE_NODES"
)

// ApplyError is the error type returned by build/research application.
type ApplyError struct {
	Code ErrorCode
	Msg  string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func applyErr(code ErrorCode, msg string) error {
	return &ApplyError{Code: code, Msg: msg}
}
