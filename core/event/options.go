package event

import (
	"log/slog"
	"time"
)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	logger            *slog.Logger
	metrics           bool
	recoverInfallible bool
	contextMetadata   bool
	slowThreshold     time.Duration
	asyncMode         AsyncMode
	asyncConcurrency  int
	middleware        []Middleware
}

func defaultOptions() options {
	return options{
		metrics:   true,
		asyncMode: AsyncSequential,
	}
}

// WithLogger sets the logger for dispatcher diagnostics.
// Dispatchers discard logs by default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithMetrics enables or disables per-type metrics bookkeeping. Enabled by default.
// When disabled, Metrics returns an empty map and dispatch skips all counter updates.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

// WithRecoverInfallible makes panics in listeners registered with On non-fatal.
// The panic is logged at Error level and the dispatch continues with the next listener.
// By default such a panic is logged and then re-raised to the caller of Dispatch or Emit.
func WithRecoverInfallible(recoverPanics bool) Option {
	return func(o *options) {
		o.recoverInfallible = recoverPanics
	}
}

// WithSlowListenerThreshold logs a warning for every listener invocation that
// takes longer than d. Zero disables the check.
func WithSlowListenerThreshold(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.slowThreshold = d
		}
	}
}

// WithAsyncMode selects how DispatchAsync schedules listeners.
// Unknown modes are ignored; use NewFromConfig to get an error instead.
func WithAsyncMode(mode AsyncMode) Option {
	return func(o *options) {
		if mode.Valid() {
			o.asyncMode = mode
		}
	}
}

// WithAsyncConcurrency bounds how many listeners of one priority tier run at once
// in AsyncTiered mode. Zero or negative means unbounded.
func WithAsyncConcurrency(n int) Option {
	return func(o *options) {
		o.asyncConcurrency = max(n, 0)
	}
}

// WithMiddleware installs middleware at construction time, ahead of any added later.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		for _, m := range mw {
			if m != nil {
				o.middleware = append(o.middleware, m)
			}
		}
	}
}

// WithContextMetadata attaches dispatch information to the context handed to
// listeners. See EventName, DispatchStart and DispatcherFrom.
func WithContextMetadata(enabled bool) Option {
	return func(o *options) {
		o.contextMetadata = enabled
	}
}
