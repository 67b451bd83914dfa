package event

import "context"

// Publisher is a dispatcher bound to one event type, convenient to inject
// into components that only ever emit T.
type Publisher[T any] struct {
	d *Dispatcher
}

// NewPublisher returns a Publisher of T backed by d.
func NewPublisher[T any](d *Dispatcher) Publisher[T] {
	return Publisher[T]{d: d}
}

// Emit is Emit for T.
func (p Publisher[T]) Emit(ctx context.Context, evt T) {
	Emit(ctx, p.d, evt)
}

// Dispatch is Dispatch for T.
func (p Publisher[T]) Dispatch(ctx context.Context, evt T) *Result {
	return Dispatch(ctx, p.d, evt)
}

// DispatchAsync is DispatchAsync for T.
func (p Publisher[T]) DispatchAsync(ctx context.Context, evt T) *Result {
	return DispatchAsync(ctx, p.d, evt)
}

// ListenerCount returns the number of listeners registered for T.
func (p Publisher[T]) ListenerCount() int {
	return ListenerCount[T](p.d)
}
