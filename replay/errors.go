package replay

import "fmt"

// ErrorCode identifies a class of DMRP container failure.
type ErrorCode string

const (
	// ErrFormat marks a structurally invalid or tampered container:
	// bad endian sentinel, a content hash mismatch, a malformed
	// per-tick record, or a request for a tick earlier than the
	// reader's cursor.
	ErrFormat ErrorCode = "DMRP_ERR_FORMAT"
	// ErrMigration marks a container written by an incompatible
	// format version; this reader supports version 6 only.
	ErrMigration ErrorCode = "DMRP_ERR_MIGRATION"
)

// ContainerError is the error type returned by replay read/write
// functions.
type ContainerError struct {
	Code ErrorCode
	Msg  string
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func replayErr(code ErrorCode, msg string) error {
	return &ContainerError{Code: code, Msg: msg}
}
