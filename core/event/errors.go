package event

import (
	"errors"
	"fmt"
)

var (
	// ErrListenerPanic is wrapped by errors recorded for listeners that panicked.
	ErrListenerPanic = errors.New("event listener panicked")

	// ErrNilListener is the panic value when a nil function is registered.
	ErrNilListener = errors.New("event listener is nil")

	// ErrInvalidAsyncMode is returned when an unknown async mode is configured.
	ErrInvalidAsyncMode = errors.New("invalid async dispatch mode")

	errInvariant = errors.New("event: listener registry invariant violated")
)

// PanicError is recorded in the Result when a fallible or async listener panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("event listener panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrListenerPanic
}
