package event

import (
	"context"
	"reflect"

	"github.com/dmitrymomot/eventbus/core/logger"
)

// On registers an infallible listener for T at PriorityDefault.
// A panic inside fn is logged and re-raised to the dispatching goroutine
// unless the dispatcher was created with WithRecoverInfallible.
//
// Example:
//
//	event.On(d, func(ctx context.Context, e UserCreated) {
//		log.Info("user created", "id", e.ID)
//	})
func On[T any](d *Dispatcher, fn func(ctx context.Context, evt T)) ListenerID {
	return OnWithPriority(d, PriorityDefault, fn)
}

// OnWithPriority registers an infallible listener for T at priority p.
func OnWithPriority[T any](d *Dispatcher, p Priority, fn func(ctx context.Context, evt T)) ListenerID {
	if fn == nil {
		panic(ErrNilListener)
	}
	return register[T](d, false, newListener(p, ModeInfallible, func(ctx context.Context, evt T) error {
		fn(ctx, evt)
		return nil
	}))
}

// Subscribe registers a fallible listener for T at PriorityDefault.
// Errors and panics are recorded in the Result of Dispatch.
func Subscribe[T any](d *Dispatcher, fn ListenerFunc[T]) ListenerID {
	return SubscribeWithPriority(d, PriorityDefault, fn)
}

// SubscribeWithPriority registers a fallible listener for T at priority p.
// Higher priorities run first; equal priorities run in registration order.
//
// Example:
//
//	event.SubscribeWithPriority(d, event.PriorityHigh, func(ctx context.Context, e OrderPlaced) error {
//		return inventory.Reserve(ctx, e.Items)
//	})
func SubscribeWithPriority[T any](d *Dispatcher, p Priority, fn ListenerFunc[T]) ListenerID {
	if fn == nil {
		panic(ErrNilListener)
	}
	return register[T](d, false, newListener[T](p, ModeFallible, fn))
}

func register[T any](d *Dispatcher, async bool, l *listener) ListenerID {
	d.mu.Lock()
	if async {
		d.asyncListeners.insert(l)
	} else {
		d.listeners.insert(l)
	}
	if d.opts.metrics {
		d.metrics.entry(reflect.TypeFor[T](), nameOf[T]).listeners.Add(1)
	}
	d.mu.Unlock()

	d.debug(context.Background(), "listener registered",
		logger.ListenerID(l.id),
		logger.Priority(l.priority),
		logger.Mode(l.mode))

	return l.id
}
