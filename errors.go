package async

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the error kinds named in the runtime's error
// handling design. Use [errors.Is] to test for these; concrete failures are
// usually wrapped with additional context via [WrapError] or a typed error
// below.
var (
	// ErrCancelled indicates an operation was aborted due to cancellation.
	ErrCancelled = errors.New("async: operation cancelled")

	// ErrClosed indicates an operation was attempted on a closed channel.
	ErrClosed = errors.New("async: channel closed")

	// ErrAlreadyAwaited indicates a second Await on a single-shot awaitable.
	ErrAlreadyAwaited = errors.New("async: already awaited")

	// ErrNotReady indicates a synchronous access to a pending result.
	ErrNotReady = errors.New("async: result not ready")

	// ErrLoopTerminated indicates an operation was attempted on a shut down
	// executor.
	ErrLoopTerminated = errors.New("async: executor is closed")
)

// CancelledError carries the [CancellationType] bits that caused an
// operation to abort, in addition to satisfying errors.Is(err,
// ErrCancelled).
type CancelledError struct {
	// Type is the accumulated cancellation bits observed at the
	// suspension point that failed.
	Type CancellationType
}

// Error implements error.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("async: operation cancelled (%s)", e.Type)
}

// Is reports whether target is ErrCancelled or another *CancelledError,
// supporting errors.Is(err, ErrCancelled).
func (e *CancelledError) Is(target error) bool {
	if target == ErrCancelled {
		return true
	}
	var other *CancelledError
	return errors.As(target, &other)
}

// UserException wraps an error returned by, or a value panicked from, a
// coroutine body. It is the carrier used when a task's error must be
// marshalled across a suspension point to an awaiter on a different
// goroutine.
type UserException struct {
	// Cause is the original error, when the coroutine body returned one.
	Cause error
	// Panic holds the recovered panic value, when the coroutine body
	// panicked rather than returning an error. Nil unless Recovered is
	// true.
	Panic any
	// Recovered is true when this exception was synthesized from a
	// recovered panic rather than a returned error.
	Recovered bool
	// Stack is the formatted goroutine stack captured at the point of
	// the panic. Empty unless Recovered is true.
	Stack string
}

// Error implements error.
func (e *UserException) Error() string {
	if e.Recovered {
		return fmt.Sprintf("async: coroutine panicked: %v", e.Panic)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "async: coroutine failed"
}

// Unwrap returns the wrapped cause, enabling errors.Is/errors.As through
// the cause chain. Returns nil for recovered panics whose value is not
// itself an error.
func (e *UserException) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// AggregateError collects multiple errors from an operation that reports
// several failures at once ([GatherErr] over more than one failed child,
// or [With] when both the body and Exit fail). It supports Go 1.20+ multi-error unwrapping, so
// errors.Is/errors.As check every contained error.
type AggregateError struct {
	Errors []error
}

// Error implements error.
func (e *AggregateError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "async: aggregate error (empty)"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("async: %d errors occurred, first: %v", len(e.Errors), e.Errors[0])
	}
}

// Unwrap returns the contained errors for errors.Is/errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Is reports true for any *AggregateError target, regardless of contents,
// mirroring the behavior of matching against the type rather than a value.
func (e *AggregateError) Is(target error) bool {
	var other *AggregateError
	return errors.As(target, &other)
}

// WrapError wraps cause with a message, preserving it for errors.Is and
// errors.As via %w.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
