package event

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"
)

// listenerSeq is shared by every Dispatcher so that IDs are unique per process.
var listenerSeq atomic.Uint64

// ListenerID identifies a registered listener. It is returned by the
// registration functions and accepted by Dispatcher.Unsubscribe.
// The zero value never identifies a listener.
type ListenerID struct {
	seq uint64
	rt  reflect.Type
}

// IsZero reports whether id is the zero ListenerID.
func (id ListenerID) IsZero() bool {
	return id.seq == 0
}

// Type returns the event type the listener was registered for.
func (id ListenerID) Type() Type {
	return Type{rt: id.rt}
}

func (id ListenerID) String() string {
	if id.seq == 0 {
		return "<none>"
	}
	return Type{rt: id.rt}.String() + "#" + strconv.FormatUint(id.seq, 10)
}

// Mode describes how a listener is invoked and how its failures are reported.
type Mode uint8

const (
	// ModeInfallible listeners return nothing; a panic is fatal unless recovery is enabled.
	ModeInfallible Mode = iota
	// ModeFallible listeners return an error that is collected into the Result.
	ModeFallible
	// ModeAsync listeners run in their own goroutine and are awaited by DispatchAsync.
	ModeAsync
)

func (m Mode) String() string {
	switch m {
	case ModeInfallible:
		return "infallible"
	case ModeFallible:
		return "fallible"
	case ModeAsync:
		return "async"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// ListenerFunc is a listener for events of type T.
// A returned error is recorded in the dispatch Result and never stops other listeners.
type ListenerFunc[T any] func(ctx context.Context, evt T) error

// listener is the type-erased registry entry.
// fn always holds a func(context.Context, T) error where T is the bucket's event type.
type listener struct {
	id       ListenerID
	priority Priority
	mode     Mode
	fn       any
}

func newListener[T any](p Priority, mode Mode, fn func(context.Context, T) error) *listener {
	return &listener{
		id:       ListenerID{seq: listenerSeq.Add(1), rt: reflect.TypeFor[T]()},
		priority: p,
		mode:     mode,
		fn:       fn,
	}
}

// callable recovers the typed function. Buckets are keyed by T, so a mismatch
// means the registry is corrupted.
func callable[T any](l *listener) func(context.Context, T) error {
	fn, ok := l.fn.(func(context.Context, T) error)
	if !ok {
		panic(fmt.Errorf("%w: listener %s cannot handle %s", errInvariant, l.id, reflect.TypeFor[T]()))
	}
	return fn
}
