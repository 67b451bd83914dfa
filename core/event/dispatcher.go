package event

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eventbus/core/logger"
)

// Dispatcher routes typed events to registered listeners.
//
// A *Dispatcher is a shared handle: copy the pointer freely, every copy sees
// the same listeners, middleware and metrics. All methods and the generic
// package functions taking a *Dispatcher are safe for concurrent use.
type Dispatcher struct {
	id   uuid.UUID
	log  *slog.Logger
	opts options

	// mu guards listeners, asyncListeners and middleware.
	// Listeners and middleware are invoked on snapshots, never under mu.
	mu             sync.RWMutex
	listeners      registry
	asyncListeners registry
	middleware     []Middleware

	metrics metricsTable
	stats   counters
}

type counters struct {
	dispatched atomic.Uint64
	blocked    atomic.Uint64
	failures   atomic.Uint64
	panics     atomic.Uint64
}

// Stats aggregates counters across all event types of one dispatcher.
type Stats struct {
	Dispatched uint64 // includes blocked dispatches
	Blocked    uint64
	Failures   uint64 // listener errors, panics included
	Panics     uint64
	Listeners  int
	Middleware int
}

// New creates a Dispatcher.
//
// Example:
//
//	d := event.New(
//		event.WithLogger(log),
//		event.WithSlowListenerThreshold(100*time.Millisecond),
//	)
func New(opts ...Option) *Dispatcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	log := o.logger
	if log == nil {
		log = logger.Discard()
	}

	return &Dispatcher{
		id:             id,
		log:            log.With(logger.Component("event"), logger.DispatcherID(id)),
		opts:           o,
		listeners:      newRegistry(),
		asyncListeners: newRegistry(),
		middleware:     slices.Clone(o.middleware),
	}
}

// ID returns the unique identifier of the dispatcher instance.
func (d *Dispatcher) ID() uuid.UUID {
	return d.id
}

// Unsubscribe removes the listener with the given id.
// It reports true exactly once for a registered listener and false afterwards
// or for ids that were never registered with this dispatcher.
// A dispatch already in progress keeps its snapshot and may still call the listener.
func (d *Dispatcher) Unsubscribe(id ListenerID) bool {
	if id.IsZero() {
		return false
	}

	d.mu.Lock()
	removed := d.listeners.remove(id) || d.asyncListeners.remove(id)
	if removed && d.opts.metrics {
		if tm, ok := d.metrics.lookup(id.rt); ok {
			tm.listeners.Add(-1)
		}
	}
	d.mu.Unlock()

	if removed {
		d.debug(context.Background(), "listener removed", logger.ListenerID(id))
	}
	return removed
}

// Clear removes every listener, sync and async, of every event type.
// Middleware and accumulated metrics are kept; see ClearMiddleware and ResetMetrics.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	removed := d.listeners.total() + d.asyncListeners.total()
	d.listeners.clear()
	d.asyncListeners.clear()
	if d.opts.metrics {
		d.metrics.each(func(tm *typeMetrics) {
			tm.listeners.Store(0)
		})
	}
	d.mu.Unlock()

	d.debug(context.Background(), "listeners cleared", logger.Count("removed", removed))
}

// AddMiddleware appends mw to the middleware chain. Nil is ignored.
// The new middleware applies to dispatches that start after AddMiddleware returns.
func (d *Dispatcher) AddMiddleware(mw Middleware) {
	if mw == nil {
		return
	}
	d.mu.Lock()
	d.middleware = slices.Concat(d.middleware, []Middleware{mw})
	d.mu.Unlock()
}

// ClearMiddleware removes all middleware.
func (d *Dispatcher) ClearMiddleware() {
	d.mu.Lock()
	d.middleware = nil
	d.mu.Unlock()
}

// MiddlewareCount returns the number of installed middleware.
func (d *Dispatcher) MiddlewareCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.middleware)
}

// Metrics returns a snapshot of per-type metrics, keyed by event type.
// Types appear once they have been subscribed to or dispatched.
// The map is empty when metrics are disabled.
func (d *Dispatcher) Metrics() map[Type]EventMetadata {
	if !d.opts.metrics {
		return map[Type]EventMetadata{}
	}
	return d.metrics.snapshot()
}

// ResetMetrics zeroes dispatch counters of every type and the aggregate Stats.
// Entries are kept, so a dispatch that is already running still counts.
func (d *Dispatcher) ResetMetrics() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metrics.each(func(tm *typeMetrics) {
		tm.reset()
	})
	d.stats.dispatched.Store(0)
	d.stats.blocked.Store(0)
	d.stats.failures.Store(0)
	d.stats.panics.Store(0)
}

// Stats returns aggregate counters for the dispatcher.
// Counters stay zero when metrics are disabled.
func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	listeners := d.listeners.total() + d.asyncListeners.total()
	middleware := len(d.middleware)
	d.mu.RUnlock()

	return Stats{
		Dispatched: d.stats.dispatched.Load(),
		Blocked:    d.stats.blocked.Load(),
		Failures:   d.stats.failures.Load(),
		Panics:     d.stats.panics.Load(),
		Listeners:  listeners,
		Middleware: middleware,
	}
}

// ListenerCount returns the number of listeners, sync and async, registered for T.
func ListenerCount[T any](d *Dispatcher) int {
	rt := reflect.TypeFor[T]()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.listeners.count(rt) + d.asyncListeners.count(rt)
}

// MetricsFor returns the metrics snapshot for T.
// The boolean is false if T was never subscribed to or dispatched, or metrics are disabled.
func MetricsFor[T any](d *Dispatcher) (EventMetadata, bool) {
	if !d.opts.metrics {
		return EventMetadata{}, false
	}
	tm, ok := d.metrics.lookup(reflect.TypeFor[T]())
	if !ok {
		return EventMetadata{}, false
	}
	return tm.snapshot(), true
}

func (d *Dispatcher) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.log.Enabled(ctx, slog.LevelDebug) {
		d.log.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
	}
}
