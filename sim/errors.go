package sim

import "fmt"

// ErrorCode identifies a class of subsystem registration failure.
type ErrorCode string

const (
	ErrNilSystem    ErrorCode = "SIM_ERR_NIL_SYSTEM"
	ErrZeroID       ErrorCode = "SIM_ERR_ZERO_ID"
	ErrDuplicateID  ErrorCode = "SIM_ERR_DUPLICATE_ID"
	ErrRegistryFull ErrorCode = "SIM_ERR_REGISTRY_FULL"
)

// SchedulerError is the error type returned by registration calls.
type SchedulerError struct {
	Code ErrorCode
	Msg  string
}

func (e *SchedulerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func simErr(code ErrorCode, msg string) error {
	return &SchedulerError{Code: code, Msg: msg}
}
