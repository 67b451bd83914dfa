package async

import "errors"

var (
	// ErrTimeout is returned when AwaitWithTimeout exceeds its duration.
	ErrTimeout = errors.New("async: operation timed out")

	// ErrNoFutures is returned when WaitAny or ExecAny is called with no futures.
	ErrNoFutures = errors.New("async: no futures provided")

	// ErrPanic is wrapped by errors produced from a recovered panic.
	ErrPanic = errors.New("async: function panicked")
)
