package async

import (
	"context"
	"time"
)

// ExecFuture represents the result of an asynchronous computation that only returns an error.
type ExecFuture struct {
	f *Future[struct{}]
}

// Await waits for the asynchronous function to complete and returns its error.
func (e *ExecFuture) Await() error {
	_, err := e.f.Await()
	return err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (e *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	_, err := e.f.AwaitWithTimeout(timeout)
	return err
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (e *ExecFuture) IsComplete() bool {
	return e.f.IsComplete()
}

// Exec executes a function asynchronously that only returns an error.
// Every call starts an independent goroutine, so the same fn may be executed
// again while a previous execution is still running.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	return &ExecFuture{
		f: Async(ctx, param, func(ctx context.Context, p T) (struct{}, error) {
			return struct{}{}, fn(ctx, p)
		}),
	}
}

// ExecAll waits for all futures to complete and returns the first error in order.
func ExecAll(futures ...*ExecFuture) error {
	var firstErr error
	for _, future := range futures {
		if err := future.Await(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ExecAny waits for any of the futures to complete and returns the index of the completed future
// and any error it might have returned.
func ExecAny(futures ...*ExecFuture) (int, error) {
	inner := make([]*Future[struct{}], len(futures))
	for i, f := range futures {
		inner[i] = f.f
	}
	idx, _, err := WaitAny(inner...)
	return idx, err
}
