// Package event provides an in-process, strongly typed event dispatcher.
// Listeners subscribe to a Go type, are ordered by priority and receive events
// after an optional middleware chain has let them through.
//
// # Core Components
//
// Dispatcher owns the listener registry, the middleware chain and per-type metrics.
// A *Dispatcher is a shared handle; every copy of the pointer refers to the same state.
//
// Listeners are registered with generic functions keyed by the event type:
// On for infallible listeners, Subscribe for listeners returning an error and
// SubscribeAsync for listeners awaited by DispatchAsync. The *WithPriority
// variants take an explicit Priority; higher priorities run first and equal
// priorities run in registration order.
//
// Emit, Dispatch and DispatchAsync deliver an event. Emit discards the outcome,
// the other two return a Result describing how many listeners ran and which failed.
//
// Middleware is a predicate over an Envelope, the type-erased view of an event.
// Any middleware returning false blocks the event before a listener runs.
//
// # Basic Usage
//
//	type UserCreated struct {
//		ID    string
//		Email string
//	}
//
//	d := event.New(event.WithLogger(log))
//
//	event.SubscribeWithPriority(d, event.PriorityHigh, func(ctx context.Context, e UserCreated) error {
//		return accounts.Provision(ctx, e.ID)
//	})
//	event.On(d, func(ctx context.Context, e UserCreated) {
//		log.Info("user created", "id", e.ID)
//	})
//
//	res := event.Dispatch(ctx, d, UserCreated{ID: "42", Email: "a@b.c"})
//	if res.HasErrors() {
//		log.Error("user created listeners failed", logger.Error(res.Err()))
//	}
//
// # Failure Handling
//
// Listener failures never escape a dispatch and never stop other listeners.
// Errors returned by Subscribe and SubscribeAsync listeners are recorded in the
// Result in invocation order, wrapped in *ListenerError. Their panics are
// recovered and recorded as *PanicError, which matches ErrListenerPanic.
//
// Listeners registered with On have no error channel. A panic in one is logged
// and re-raised to the dispatching goroutine, unless the dispatcher was created
// with WithRecoverInfallible, in which case it is logged and dropped.
//
// # Async Dispatch
//
// DispatchAsync runs each async listener in its own goroutine and waits for it
// before starting the next one, so ordering matches the synchronous path.
// With WithAsyncMode(AsyncTiered), listeners sharing a priority run concurrently
// and only priority tiers are serialized. DispatchAsyncFuture returns a future
// instead of blocking.
//
// # Concurrency
//
// Registration and middleware changes take an exclusive lock. Dispatches take a
// shared lock only long enough to snapshot the middleware chain and listener
// bucket; listeners run outside any lock. A listener may therefore dispatch,
// subscribe or unsubscribe freely; changes apply to the next dispatch.
// The dispatcher provides no cancellation or timeout of its own. The context
// passed to a dispatch is handed to every listener unchanged (see
// WithContextMetadata for the one exception).
//
// # Metrics
//
// Metrics returns per-type counters: dispatch count (blocked dispatches
// included), blocked count, registered listeners and last dispatch time.
// Counters are atomic and never serialize dispatches. Clear keeps metrics;
// ResetMetrics zeroes them.
//
// # Configuration
//
// NewFromConfig builds a dispatcher from Config, which LoadConfig reads from
// EVENT_* environment variables.
package event
