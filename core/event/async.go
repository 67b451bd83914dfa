package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/eventbus/core/logger"
	"github.com/dmitrymomot/eventbus/pkg/async"
)

// AsyncMode selects how DispatchAsync schedules async listeners.
type AsyncMode string

const (
	// AsyncSequential runs listeners one at a time in priority order.
	// Each listener completes before the next one starts.
	AsyncSequential AsyncMode = "sequential"

	// AsyncTiered runs listeners of equal priority concurrently and waits for
	// the whole tier before starting the next, lower, one.
	AsyncTiered AsyncMode = "tiered"
)

// Valid reports whether m is a known mode.
func (m AsyncMode) Valid() bool {
	return m == AsyncSequential || m == AsyncTiered
}

func (m AsyncMode) String() string {
	return string(m)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AsyncMode) UnmarshalText(text []byte) error {
	mode := AsyncMode(text)
	if mode == "" {
		mode = AsyncSequential
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAsyncMode, string(text))
	}
	*m = mode
	return nil
}

// SubscribeAsync registers an async listener for T at PriorityDefault.
// Async listeners only receive events sent with DispatchAsync.
func SubscribeAsync[T any](d *Dispatcher, fn ListenerFunc[T]) ListenerID {
	return SubscribeAsyncWithPriority(d, PriorityDefault, fn)
}

// SubscribeAsyncWithPriority registers an async listener for T at priority p.
// Each dispatch runs fn in a fresh goroutine, so one listener may be running
// for several overlapping dispatches at once.
func SubscribeAsyncWithPriority[T any](d *Dispatcher, p Priority, fn ListenerFunc[T]) ListenerID {
	if fn == nil {
		panic(ErrNilListener)
	}
	return register[T](d, true, newListener[T](p, ModeAsync, fn))
}

// DispatchAsync delivers evt to every async listener of T and waits for them.
//
// In AsyncSequential mode (the default) listeners run in priority order and a
// listener starts only after the previous one returned. In AsyncTiered mode
// listeners sharing a priority run concurrently, and tiers still run strictly
// one after another.
//
// The engine imposes no timeout. If ctx is already done when a listener is
// due to start, the listener is skipped and ctx.Err() is recorded for it.
func DispatchAsync[T any](ctx context.Context, d *Dispatcher, evt T) *Result {
	ctx, bucket, ok := begin(ctx, d, evt, true)
	if !ok {
		return blockedResult
	}

	res := &Result{invoked: len(bucket)}
	if len(bucket) == 0 {
		return res
	}

	start := time.Now()
	var errs []error
	if d.opts.asyncMode == AsyncTiered {
		errs = runTiered(ctx, d, bucket, evt)
	} else {
		errs = runSequential(ctx, d, bucket, evt)
	}

	for i, err := range errs {
		if err != nil {
			d.failed(ctx, bucket[i], err)
			res.record(bucket[i], err)
		}
	}

	if d.log.Enabled(ctx, slog.LevelDebug) {
		d.log.LogAttrs(ctx, slog.LevelDebug, "async dispatch completed",
			logger.Mode(d.opts.asyncMode),
			logger.Count("listeners", res.invoked),
			logger.Elapsed(start),
			logger.Errors(res.Errors()...))
	}
	return res
}

// DispatchAsyncFuture starts DispatchAsync in the background and returns a
// future for its Result. The future fails only if ctx is done before the
// dispatch starts.
func DispatchAsyncFuture[T any](ctx context.Context, d *Dispatcher, evt T) *async.Future[*Result] {
	return async.Async(ctx, evt, func(ctx context.Context, evt T) (*Result, error) {
		return DispatchAsync(ctx, d, evt), nil
	})
}

func runSequential[T any](ctx context.Context, d *Dispatcher, bucket []*listener, evt T) []error {
	errs := make([]error, len(bucket))
	for i, l := range bucket {
		errs[i] = async.Exec(ctx, evt, func(ctx context.Context, evt T) error {
			return invoke(ctx, d, l, evt)
		}).Await()
	}
	return errs
}

func runTiered[T any](ctx context.Context, d *Dispatcher, bucket []*listener, evt T) []error {
	errs := make([]error, len(bucket))
	for start := 0; start < len(bucket); {
		end := start + 1
		for end < len(bucket) && bucket[end].priority == bucket[start].priority {
			end++
		}

		var g errgroup.Group
		if d.opts.asyncConcurrency > 0 {
			g.SetLimit(d.opts.asyncConcurrency)
		}
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return nil
				}
				errs[i] = invoke(ctx, d, bucket[i], evt)
				return nil
			})
		}
		_ = g.Wait() // per-listener errors are collected in errs

		start = end
	}
	return errs
}
