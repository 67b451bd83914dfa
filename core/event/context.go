package event

import (
	"context"
	"time"
)

type dispatchInfoKey struct{}

type dispatchInfo struct {
	name       string
	start      time.Time
	dispatcher *Dispatcher
}

func withDispatchInfo(ctx context.Context, info dispatchInfo) context.Context {
	return context.WithValue(ctx, dispatchInfoKey{}, info)
}

func dispatchInfoFrom(ctx context.Context) (dispatchInfo, bool) {
	if ctx == nil {
		return dispatchInfo{}, false
	}
	info, ok := ctx.Value(dispatchInfoKey{}).(dispatchInfo)
	return info, ok
}

// EventName returns the name of the event being dispatched.
// Empty unless the dispatcher was created with WithContextMetadata.
func EventName(ctx context.Context) string {
	info, _ := dispatchInfoFrom(ctx)
	return info.name
}

// DispatchStart returns when the current dispatch began.
// Zero unless the dispatcher was created with WithContextMetadata.
func DispatchStart(ctx context.Context) time.Time {
	info, _ := dispatchInfoFrom(ctx)
	return info.start
}

// DispatcherFrom returns the dispatcher delivering the current event,
// allowing a listener to emit follow-up events without capturing the handle.
func DispatcherFrom(ctx context.Context) (*Dispatcher, bool) {
	info, ok := dispatchInfoFrom(ctx)
	if !ok || info.dispatcher == nil {
		return nil, false
	}
	return info.dispatcher, true
}
