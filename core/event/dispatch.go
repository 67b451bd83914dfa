package event

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/eventbus/core/logger"
)

// Emit delivers evt to every synchronous listener of T and discards the outcome.
// Listener failures are contained exactly as in Dispatch.
// It runs on the calling goroutine; listeners should not block on I/O.
func Emit[T any](ctx context.Context, d *Dispatcher, evt T) {
	ctx, bucket, ok := begin(ctx, d, evt, false)
	if !ok {
		return
	}
	for _, l := range bucket {
		if err := invoke(ctx, d, l, evt); err != nil {
			d.failed(ctx, l, err)
		}
	}
}

// Dispatch delivers evt to every synchronous listener of T, highest priority
// first, and reports the outcome. A failing listener never stops the others.
//
// The set of listeners is fixed when the dispatch starts: listeners added or
// removed meanwhile, including by the listeners themselves, take effect on the
// next dispatch. Listeners may dispatch further events.
//
// Example:
//
//	res := event.Dispatch(ctx, d, OrderPlaced{ID: id})
//	if res.HasErrors() {
//		return res.Err()
//	}
func Dispatch[T any](ctx context.Context, d *Dispatcher, evt T) *Result {
	ctx, bucket, ok := begin(ctx, d, evt, false)
	if !ok {
		return blockedResult
	}

	res := &Result{invoked: len(bucket)}
	for _, l := range bucket {
		if err := invoke(ctx, d, l, evt); err != nil {
			d.failed(ctx, l, err)
			res.record(l, err)
		}
	}
	return res
}

// begin runs the steps shared by every dispatch path: metrics, middleware and
// the bucket snapshot. It reports false when middleware blocked the event.
func begin[T any](ctx context.Context, d *Dispatcher, evt T, async bool) (context.Context, []*listener, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt := reflect.TypeFor[T]()

	d.mu.RLock()
	chain := d.middleware
	d.mu.RUnlock()

	var tm *typeMetrics
	if d.opts.metrics {
		tm = d.metrics.entry(rt, nameOf[T])
		tm.dispatches.Add(1)
		tm.lastDispatch.Store(time.Now().UnixNano())
		d.stats.dispatched.Add(1)
	}

	if len(chain) > 0 {
		env := Envelope{Type: Type{rt: rt}, Name: eventName[T](tm), Payload: evt}
		if !d.runMiddleware(ctx, chain, env) {
			if tm != nil {
				tm.blocked.Add(1)
				d.stats.blocked.Add(1)
			}
			d.debug(ctx, "event blocked by middleware", logger.Event(env.Name))
			return ctx, nil, false
		}
	}

	d.mu.RLock()
	var bucket []*listener
	if async {
		bucket = d.asyncListeners.bucket(rt)
	} else {
		bucket = d.listeners.bucket(rt)
	}
	d.mu.RUnlock()

	if d.opts.contextMetadata && len(bucket) > 0 {
		ctx = withDispatchInfo(ctx, dispatchInfo{
			name:       eventName[T](tm),
			start:      time.Now(),
			dispatcher: d,
		})
	}
	return ctx, bucket, true
}

// eventName prefers the name cached in the metrics entry.
func eventName[T any](tm *typeMetrics) string {
	if tm != nil {
		return tm.name
	}
	return nameOf[T]()
}

// invoke calls one listener, converting panics according to its mode.
func invoke[T any](ctx context.Context, d *Dispatcher, l *listener, evt T) (err error) {
	fn := callable[T](l)

	if d.opts.slowThreshold > 0 {
		defer d.checkSlow(ctx, l, time.Now())
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()
		if d.opts.metrics {
			d.stats.panics.Add(1)
		}

		if l.mode != ModeInfallible {
			err = &PanicError{Value: r, Stack: stack}
			return
		}

		if d.opts.metrics {
			d.stats.failures.Add(1)
		}
		d.log.LogAttrs(ctx, slog.LevelError, "event listener panicked",
			logger.Group("listener",
				logger.ListenerID(l.id),
				logger.Priority(l.priority),
				logger.Mode(l.mode)),
			logger.Panic(r),
			logger.StackBytes(stack))
		if !d.opts.recoverInfallible {
			panic(r)
		}
	}()

	return fn(ctx, evt)
}

func (d *Dispatcher) failed(ctx context.Context, l *listener, err error) {
	if d.opts.metrics {
		d.stats.failures.Add(1)
	}
	d.debug(ctx, "event listener failed",
		logger.ListenerID(l.id),
		logger.Priority(l.priority),
		logger.Error(err))
}

func (d *Dispatcher) checkSlow(ctx context.Context, l *listener, start time.Time) {
	elapsed := time.Since(start)
	if elapsed <= d.opts.slowThreshold {
		return
	}
	d.log.LogAttrs(ctx, slog.LevelWarn, "slow event listener",
		logger.ListenerID(l.id),
		logger.Mode(l.mode),
		logger.Duration(elapsed),
		logger.Threshold(d.opts.slowThreshold))
}
