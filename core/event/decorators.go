package event

import (
	"context"
	"math"
	"time"
)

// Decorator wraps a listener with additional behavior.
type Decorator[T any] func(ListenerFunc[T]) ListenerFunc[T]

// Decorate applies decorators to fn. The first decorator is the outermost.
//
// Example:
//
//	fn := event.Decorate(sendWelcomeEmail,
//		event.Timeout[UserCreated](5*time.Second),
//		event.Retry[UserCreated](3, event.ConstantBackoff(100*time.Millisecond)),
//	)
//	event.SubscribeAsync(d, fn)
func Decorate[T any](fn ListenerFunc[T], decorators ...Decorator[T]) ListenerFunc[T] {
	if fn == nil {
		return nil
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		if decorators[i] != nil {
			fn = decorators[i](fn)
		}
	}
	return fn
}

// Backoff returns the delay before retry attempt n, starting at 1.
type Backoff func(attempt int) time.Duration

// ConstantBackoff waits d between attempts.
func ConstantBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles the delay after every attempt, capped at maxDelay.
// A non-positive maxDelay caps at the largest representable duration.
func ExponentialBackoff(base, maxDelay time.Duration) Backoff {
	if maxDelay <= 0 {
		maxDelay = math.MaxInt64
	}
	return func(attempt int) time.Duration {
		d := min(base, maxDelay)
		for i := 1; i < attempt && d > 0 && d < maxDelay; i++ {
			if d > maxDelay/2 {
				return maxDelay
			}
			d *= 2
		}
		return d
	}
}

// Retry calls the listener up to attempts times until it succeeds.
// Waiting between attempts stops early when ctx is done; the last listener
// error is returned in that case.
func Retry[T any](attempts int, backoff Backoff) Decorator[T] {
	attempts = max(attempts, 1)
	return func(next ListenerFunc[T]) ListenerFunc[T] {
		return func(ctx context.Context, evt T) error {
			var err error
			for attempt := 1; attempt <= attempts; attempt++ {
				if err = next(ctx, evt); err == nil {
					return nil
				}
				if attempt == attempts || backoff == nil {
					continue
				}
				if wait := backoff(attempt); wait > 0 {
					timer := time.NewTimer(wait)
					select {
					case <-ctx.Done():
						timer.Stop()
						return err
					case <-timer.C:
					}
				}
			}
			return err
		}
	}
}

// Timeout gives each call a context that expires after d.
// The listener must honor ctx for the timeout to have any effect.
func Timeout[T any](d time.Duration) Decorator[T] {
	return func(next ListenerFunc[T]) ListenerFunc[T] {
		return func(ctx context.Context, evt T) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, evt)
		}
	}
}
