package widget

import (
	"errors"
	"fmt"
)

// Kind classifies why a submission did not succeed.
type Kind int

const (
	// KindNoFileSelected means submit was pressed with no active file.
	KindNoFileSelected Kind = iota + 1
	// KindFileTooLarge means the active file exceeds the size limit.
	KindFileTooLarge
	// KindServerRejected means the server answered but did not accept the file.
	KindServerRejected
	// KindConnectionFailed means the server could not be reached or its reply parsed.
	KindConnectionFailed
)

// String returns the snake_case name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindNoFileSelected:
		return "no_file_selected"
	case KindFileTooLarge:
		return "file_too_large"
	case KindServerRejected:
		return "server_rejected"
	case KindConnectionFailed:
		return "connection_failed"
	default:
		return "unknown"
	}
}

// ErrSubmitDisabled is returned when Submit is called while the submit
// control is disabled: a submission is in flight or the success banner
// is waiting for the auto-reset.
var ErrSubmitDisabled = errors.New("widget: submit control is disabled")

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("widget: closed")

// ValidationError reports a submission refused before any request was sent.
type ValidationError struct {
	Kind  Kind
	Size  int64
	Limit int64
}

func (e *ValidationError) Error() string {
	if e.Kind == KindFileTooLarge {
		return fmt.Sprintf("file too large: %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
	}
	return "no file selected"
}

// ServerRejectedError reports a parsed reply that was not a success.
type ServerRejectedError struct {
	StatusCode int
	// Message is the server's error field, empty when it sent none.
	Message string
	Cause   error
}

func (e *ServerRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected resume (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server rejected resume (HTTP %d)", e.StatusCode)
}

func (e *ServerRejectedError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports a transport or decoding failure.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach server: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind carried by err, or 0 when err is not a submission error.
func KindOf(err error) Kind {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Kind
	}
	var rejectedErr *ServerRejectedError
	if errors.As(err, &rejectedErr) {
		return KindServerRejected
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return KindConnectionFailed
	}
	return 0
}
