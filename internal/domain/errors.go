package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrValidation marks input problems that are reported before any I/O.
	ErrValidation = errors.New("validation")
	// ErrTimeout marks an outbound call that ran past its deadline.
	ErrTimeout = errors.New("timed out")
	// ErrNetwork marks any other failure talking to a remote service.
	ErrNetwork = errors.New("network error")
)

// ValidationError carries the text shown to the user as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string        { return e.Msg }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RemoteError classifies err from an outbound call as ErrTimeout or
// ErrNetwork while keeping the original text and chain. With an empty op the
// remote message is kept verbatim.
func RemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := ErrNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = ErrTimeout
	}
	return &remoteError{op: op, kind: kind, err: err}
}

type remoteError struct {
	op   string
	kind error
	err  error
}

func (e *remoteError) Error() string {
	msg := e.err.Error()
	if e.kind == ErrTimeout {
		msg = fmt.Sprintf("%s: %s", e.kind, msg)
	}
	if e.op == "" {
		return msg
	}
	return e.op + ": " + msg
}

func (e *remoteError) Is(target error) bool { return target == e.kind }
func (e *remoteError) Unwrap() error        { return e.err }

// Kind names the class of err for status lines and API error codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "internal"
	}
}
