package event_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventbus/core/event"
)

func TestDecorate_Order(t *testing.T) {
	t.Parallel()

	var tr trace
	mark := func(name string) event.Decorator[UserCreated] {
		return func(next event.ListenerFunc[UserCreated]) event.ListenerFunc[UserCreated] {
			return func(ctx context.Context, e UserCreated) error {
				tr.add(name + ":before")
				err := next(ctx, e)
				tr.add(name + ":after")
				return err
			}
		}
	}

	fn := event.Decorate(func(ctx context.Context, e UserCreated) error {
		tr.add("listener")
		return nil
	}, mark("outer"), nil, mark("inner"))

	require.NoError(t, fn(context.Background(), UserCreated{}))
	assert.Equal(t, []string{
		"outer:before", "inner:before", "listener", "inner:after", "outer:after",
	}, tr.list())

	assert.Nil(t, event.Decorate[UserCreated](nil, mark("unused")))
}

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fn := event.Decorate(func(ctx context.Context, e OrderPlaced) error {
			if calls.Add(1) < 3 {
				return errors.New("transient")
			}
			return nil
		}, event.Retry[OrderPlaced](3, event.ConstantBackoff(time.Millisecond)))

		assert.NoError(t, fn(context.Background(), OrderPlaced{}))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		errPermanent := errors.New("permanent")
		fn := event.Decorate(func(ctx context.Context, e OrderPlaced) error {
			calls.Add(1)
			return errPermanent
		}, event.Retry[OrderPlaced](2, nil))

		assert.ErrorIs(t, fn(context.Background(), OrderPlaced{}), errPermanent)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("stops waiting when context is done", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fn := event.Decorate(func(ctx context.Context, e OrderPlaced) error {
			calls.Add(1)
			return errors.New("fail")
		}, event.Retry[OrderPlaced](5, event.ConstantBackoff(time.Hour)))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		assert.Error(t, fn(ctx, OrderPlaced{}))
		assert.Equal(t, int32(1), calls.Load())
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("inside dispatch", func(t *testing.T) {
		t.Parallel()

		d := event.New()
		var calls atomic.Int32
		event.Subscribe(d, event.Decorate(func(ctx context.Context, e OrderPlaced) error {
			if calls.Add(1) == 1 {
				return errors.New("first attempt")
			}
			return nil
		}, event.Retry[OrderPlaced](2, nil)))

		res := event.Dispatch(context.Background(), d, OrderPlaced{})
		assert.True(t, res.AllSucceeded())
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	b := event.ExponentialBackoff(10*time.Millisecond, 50*time.Millisecond)

	assert.Equal(t, 10*time.Millisecond, b(1))
	assert.Equal(t, 20*time.Millisecond, b(2))
	assert.Equal(t, 40*time.Millisecond, b(3))
	assert.Equal(t, 50*time.Millisecond, b(4))
	assert.Equal(t, 50*time.Millisecond, b(10))

	uncapped := event.ExponentialBackoff(time.Millisecond, 0)
	assert.Equal(t, 8*time.Millisecond, uncapped(4))

	t.Run("never overflows without a cap", func(t *testing.T) {
		t.Parallel()

		b := event.ExponentialBackoff(1, 0)
		prev := time.Duration(0)
		for attempt := 1; attempt <= 200; attempt++ {
			d := b(attempt)
			require.Positive(t, d, "attempt %d", attempt)
			require.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
			prev = d
		}
		assert.Equal(t, time.Duration(math.MaxInt64), b(64))
		assert.Equal(t, time.Duration(math.MaxInt64), b(65))
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	fn := event.Decorate(func(ctx context.Context, e OrderPlaced) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, event.Timeout[OrderPlaced](10*time.Millisecond))

	d := event.New()
	event.SubscribeAsync(d, fn)

	res := event.DispatchAsync(context.Background(), d, OrderPlaced{})
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
}
