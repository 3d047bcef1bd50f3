package transfer

import (
	"errors"
	"fmt"
)

// Error kinds. A rejected operation reported by the service is not an error;
// it comes back as a failed envelope.
var (
	// ErrTransport covers connection, timeout and read failures.
	ErrTransport = errors.New("transport error")
	// ErrDecode means a body or frame did not parse as the expected shape.
	ErrDecode = errors.New("decode error")
	// ErrSink means the local destination could not be opened, written or closed.
	ErrSink = errors.New("sink error")
)

// Error records the kind of failure and the operation that hit it.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrDecode) works.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func transportError(op string, err error) error {
	return &Error{Kind: ErrTransport, Op: op, Err: err}
}

func decodeError(op string, err error) error {
	return &Error{Kind: ErrDecode, Op: op, Err: err}
}

func sinkError(op string, err error) error {
	return &Error{Kind: ErrSink, Op: op, Err: err}
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
