// Package async runs functions in their own goroutines and hands back futures
// for their results.
//
// # Core Types
//
// Future[U] holds the outcome of one asynchronous computation. Await blocks until
// it completes, AwaitWithTimeout and AwaitContext bound the wait, IsComplete and
// Done observe it without blocking.
//
// ExecFuture is the error-only variant returned by Exec, for functions that
// produce no value.
//
// # Usage
//
//	future := async.Async(ctx, userID, loadProfile)
//
//	// other work
//
//	profile, err := future.AwaitWithTimeout(200 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		return cachedProfile, nil
//	}
//
// Every call starts a fresh goroutine, so the same function may run several
// times at once:
//
//	a := async.Exec(ctx, first, notify)
//	b := async.Exec(ctx, second, notify)
//	if err := async.ExecAll(a, b); err != nil {
//		return err
//	}
//
// # Coordination
//
// WaitAll and ExecAll wait for every future and return the first error in
// argument order. WaitAny and ExecAny return as soon as one future completes.
// Resolved wraps an already known value.
//
// # Errors and Panics
//
// A panic inside the function is recovered and completes the future with a
// *PanicError, which matches ErrPanic and carries the stack of the panicking
// goroutine. If ctx is already done when the goroutine starts, the function is
// not called and the future completes with ctx.Err(). Once running, the
// function is responsible for honoring ctx itself.
package async
