package compare

import (
	"errors"
	"fmt"
)

// Error is a failure that aborts the current comparison run but not the
// process.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the snapshot file involved, when there is one.
	Path string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes comparison errors.
type ErrorCode string

const (
	// ErrCodeWriteFailed indicates a snapshot file could not be written.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"

	// ErrCodeLaunchFailed indicates the diff tool could not be started.
	ErrCodeLaunchFailed ErrorCode = "LAUNCH_FAILED"

	// ErrCodeStoreFailed indicates the document store failed mid-run.
	ErrCodeStoreFailed ErrorCode = "STORE_FAILED"

	// ErrCodeConfirmFailed indicates the operator prompt could not be read.
	ErrCodeConfirmFailed ErrorCode = "CONFIRM_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err is a snapshot write failure.
func IsWriteError(err error) bool {
	return hasCode(err, ErrCodeWriteFailed)
}

// IsLaunchError reports whether err is a diff tool launch failure.
func IsLaunchError(err error) bool {
	return hasCode(err, ErrCodeLaunchFailed)
}

// IsStoreError reports whether err is a document store failure.
func IsStoreError(err error) bool {
	return hasCode(err, ErrCodeStoreFailed)
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
