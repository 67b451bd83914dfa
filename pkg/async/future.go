package async

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	value U
	err   error
	once  sync.Once
	done  chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// complete stores the outcome exactly once and releases all waiters.
func (f *Future[U]) complete(value U, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Await waits for the computation to complete and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.value, f.err
}

// AwaitWithTimeout waits for the computation with a timeout.
// Returns ErrTimeout if the computation has not completed in time.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// AwaitContext waits for the computation or for ctx to be done, whichever comes first.
// The computation itself keeps running when ctx is done first.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// IsComplete reports whether the computation has completed without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the computation completes.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Async executes fn in its own goroutine and returns a Future for its result.
// A panic inside fn is converted into an error wrapping ErrPanic.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		var zero U

		// Early exit prevents running work for a caller that already gave up
		select {
		case <-ctx.Done():
			f.complete(zero, ctx.Err())
			return
		default:
		}

		defer func() {
			if r := recover(); r != nil {
				f.complete(zero, panicError(r))
			}
		}()

		value, err := fn(ctx, param)
		f.complete(value, err)
	}()

	return f
}

// Resolved returns an already completed Future.
func Resolved[U any](value U, err error) *Future[U] {
	f := newFuture[U]()
	f.complete(value, err)
	return f
}

// WaitAll waits for all futures and returns their values in order.
// The first error encountered (in order) is returned after every future completed.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	values := make([]U, len(futures))
	var firstErr error
	for i, f := range futures {
		v, err := f.Await()
		values[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return values, firstErr
}

// WaitAny returns the index and result of the first future to complete.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	var zero U
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index int
		value U
		err   error
	}

	// Buffered so late completions never block their goroutine
	done := make(chan outcome, len(futures))
	for i, f := range futures {
		go func(index int, f *Future[U]) {
			v, err := f.Await()
			done <- outcome{index: index, value: v, err: err}
		}(i, f)
	}

	res := <-done
	return res.index, res.value, res.err
}

func panicError(r any) error {
	const size = 16 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return &PanicError{Value: r, Stack: buf}
}

// PanicError carries a value recovered from a panicking async function.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async function panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrPanic
}
