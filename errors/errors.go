package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the caller authenticated correctly
	// but does not hold the role required by the operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrInvalidModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when an object is in invalid state
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned whenever the type is not what was expected
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientBalance is returned when an operation would drive a
	// balance below zero.
	ErrInsufficientBalance = Register(12, "insufficient balance")

	// ErrInvalidAmount stands for a non-positive or out of range amount.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidArgument stands for general input problems indication,
	// for example transferring ownership to the current owner.
	ErrInvalidArgument = Register(14, "invalid argument")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrNotInitialized is returned when an instance is read or written
	// before it was initialized.
	ErrNotInitialized = Register(17, "not initialized")

	// ErrAlreadyInitialized is returned by a second initialization of the
	// same instance.
	ErrAlreadyInitialized = Register(18, "already initialized")

	// ErrUnauthenticated is returned when the declared caller did not sign
	// the current operation.
	ErrUnauthenticated = Register(19, "unauthenticated")

	// ErrMissingPayee is returned when routing requires a payee address
	// that was not supplied.
	ErrMissingPayee = Register(20, "missing payee")

	// ErrPaused is returned when a mutating call is blocked by the pause
	// flag.
	ErrPaused = Register(21, "paused")

	// ErrDatabase is returned when the underlying storage misbehaves.
	ErrDatabase = Register(22, "database")

	// ErrIteratorDone is returned by iterators when there are no more
	// items to return.
	ErrIteratorDone = Register(23, "iterator done")

	// ErrNetwork is returned when a remote node cannot be reached.
	ErrNetwork = Register(24, "network")

	// ErrTimeout is returned when a remote result did not arrive in time.
	ErrTimeout = Register(25, "timeout")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error. Codes are unique across the process, a
// second registration of the same code panics, so call it from package
// level variable declarations only.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Code 1 is what tendermint reports for errors outside of this registry.
var usedCodes = map[uint32]*Error{1: nil}

// Error is a root error. Errors returned at runtime wrap one of them, the
// root decides the abci code reported to the client.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is reports whether err is kind or wraps it. A nil kind matches a nil
// error, including a typed nil.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	return walk(err, func(e error) bool { return e == kind }) != nil
}

// Code returns the abci code of err: 0 for nil, the code of the wrapped
// root error, or 1 when there is none.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	if found := walk(err, func(e error) bool { _, ok := e.(coder); return ok }); found != nil {
		return found.(coder).ABCICode()
	}
	return 1
}

// walk follows the Cause chain of err and returns the first error
// matching fn, or nil.
func walk(err error, fn func(error) bool) error {
	for err != nil {
		if fn(err) {
			return err
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// Wrap annotates err with description and returns nil for a nil err. The
// stack trace is recorded once, at the innermost Wrap.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap supports the errors package of the standard library.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the stack trace of the wrapped error when %+v is used.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover must be deferred. It stops a panic and stores it in err as an
// ErrPanic.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Redact hides the details of a recovered panic from the client.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return ErrPanic
	}
	return err
}

// WithType annotates err with the type of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// Field annotates a validation error with the name of the offending
// field, for example Field("Amount", ErrInvalidAmount, "must be positive").
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	if description == "" {
		return Wrap(err, fieldName)
	}
	return Wrapf(err, "%s: %s", fieldName, description)
}

type causer interface {
	Cause() error
}

// stackTrace returns the first stack trace found along the Cause chain.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if found := walk(err, func(e error) bool { _, ok := e.(stackTracer); return ok }); found != nil {
		return found.(stackTracer).StackTrace()
	}
	return nil
}
