// Package failure defines the closed set of error kinds handlers report.
//
// Every error that leaves a service carries exactly one Kind. Transport
// adapters map the kind to a fixed response shape and never inspect the
// wrapped cause.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a handler failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not pass through this package.
	KindUnknown Kind = iota
	// KindInput is a client-input problem: missing or malformed request body.
	KindInput
	// KindDependency is a failure of the email service or the counter store.
	KindDependency
)

// Sentinel values so callers can match a kind with errors.Is.
var (
	ErrInput      = errors.New("input error")
	ErrDependency = errors.New("dependency error")
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInput:
		return ErrInput
	case KindDependency:
		return ErrDependency
	default:
		return nil
	}
}

// Error is a kinded error raised by an operation.
type Error struct {
	Op   string
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Message returns the client-facing description without the operation prefix.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

// NewKind creates a kinded error with a fixed message.
func NewKind(op string, kind Kind, msg string) error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// WrapKind wraps err with op and kind. It returns nil if err is nil.
func WrapKind(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-facing message of the outermost *Error in
// err's chain, or err.Error() for foreign errors.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return err.Error()
}
