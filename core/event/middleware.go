package event

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/eventbus/core/logger"
)

// Middleware is a gate evaluated for every event before listener lookup.
// Returning false blocks the event: no listener runs and the Result reports IsBlocked.
// Middleware runs in registration order and stops at the first false.
// A panicking middleware is logged and blocks the event.
type Middleware func(ctx context.Context, env Envelope) bool

func (d *Dispatcher) runMiddleware(ctx context.Context, chain []Middleware, env Envelope) (pass bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pass = false
		if d.opts.metrics {
			d.stats.panics.Add(1)
		}
		d.log.LogAttrs(ctx, slog.LevelError, "event middleware panicked",
			logger.Event(env.Name),
			logger.Panic(r),
			logger.StackBytes(debug.Stack()))
	}()

	for _, mw := range chain {
		if !mw(ctx, env) {
			return false
		}
	}
	return true
}

// AllowTypes passes only events of the given types.
//
// Example:
//
//	d.AddMiddleware(event.AllowTypes(event.TypeOf[OrderPlaced](), event.TypeOf[OrderShipped]()))
func AllowTypes(types ...Type) Middleware {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(_ context.Context, env Envelope) bool {
		_, ok := set[env.Type]
		return ok
	}
}

// DenyTypes blocks events of the given types and passes everything else.
func DenyTypes(types ...Type) Middleware {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(_ context.Context, env Envelope) bool {
		_, blocked := set[env.Type]
		return !blocked
	}
}

// LogEvents logs every event passing through the pipeline at the given level.
// It never blocks.
//
// Example:
//
//	d.AddMiddleware(event.LogEvents(log, slog.LevelDebug))
func LogEvents(log *slog.Logger, level slog.Level) Middleware {
	return func(ctx context.Context, env Envelope) bool {
		if log.Enabled(ctx, level) {
			log.LogAttrs(ctx, level, "event received",
				logger.Event(env.Name),
				slog.String("type", env.Type.String()),
				logger.Key("payload", env.Payload))
		}
		return true
	}
}
