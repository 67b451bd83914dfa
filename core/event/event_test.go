package event_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventbus/core/event"
)

type pointerNamer struct{}

func (*pointerNamer) EventName() string { return "never used" }

type emptyNamer struct{}

func (emptyNamer) EventName() string { return "" }

func TestTypeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, event.TypeOf[UserCreated](), event.TypeOf[UserCreated]())
	assert.NotEqual(t, event.TypeOf[UserCreated](), event.TypeOf[*UserCreated]())
	assert.NotEqual(t, event.TypeOf[UserCreated](), event.TypeOf[OrderPlaced]())
	assert.Equal(t, "event_test.UserCreated", event.TypeOf[UserCreated]().String())
	assert.Equal(t, "*event_test.UserCreated", event.TypeOf[*UserCreated]().String())
	assert.Equal(t, "<nil>", event.Type{}.String())
}

func TestEventNames(t *testing.T) {
	t.Parallel()

	d := event.New()
	event.Dispatch(context.Background(), d, &pointerNamer{})
	event.Dispatch(context.Background(), d, emptyNamer{})
	event.Dispatch(context.Background(), d, "plain string")

	m := d.Metrics()
	assert.Equal(t, "*event_test.pointerNamer", m[event.TypeOf[*pointerNamer]()].Name)
	assert.Equal(t, "event_test.emptyNamer", m[event.TypeOf[emptyNamer]()].Name)
	assert.Equal(t, "string", m[event.TypeOf[string]()].Name)
}

func TestPriority(t *testing.T) {
	t.Parallel()

	levels := event.Priorities()
	require.Len(t, levels, 6)
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i-1], levels[i])
	}
	for _, p := range levels {
		assert.True(t, p.Valid(), p.String())
	}

	assert.Equal(t, event.PriorityNormal, event.PriorityDefault)
	assert.False(t, event.Priority(-1).Valid())
	assert.False(t, event.Priority(127).Valid())
	assert.Equal(t, "priority(60)", event.Priority(60).String())
	assert.Equal(t, "critical", event.PriorityCritical.String())
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "infallible", event.ModeInfallible.String())
	assert.Equal(t, "fallible", event.ModeFallible.String())
	assert.Equal(t, "async", event.ModeAsync.String())
	assert.Equal(t, "mode(9)", event.Mode(9).String())
}

func TestContextMetadata(t *testing.T) {
	t.Parallel()

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()

		d := event.New(event.WithContextMetadata(true))
		var name string
		var start time.Time
		var from *event.Dispatcher
		event.On(d, func(ctx context.Context, e PaymentFailed) {
			name = event.EventName(ctx)
			start = event.DispatchStart(ctx)
			from, _ = event.DispatcherFrom(ctx)
		})

		event.Dispatch(context.Background(), d, PaymentFailed{})

		assert.Equal(t, "payment.failed", name)
		assert.False(t, start.IsZero())
		assert.Same(t, d, from)
	})

	t.Run("follow-up events through the context", func(t *testing.T) {
		t.Parallel()

		d := event.New(event.WithContextMetadata(true))
		var shipped atomic.Bool
		event.On(d, func(ctx context.Context, e OrderPlaced) {
			if disp, ok := event.DispatcherFrom(ctx); ok {
				event.Emit(ctx, disp, OrderShipped{ID: e.ID})
			}
		})
		event.On(d, func(ctx context.Context, e OrderShipped) {
			shipped.Store(event.EventName(ctx) == "event_test.OrderShipped")
		})

		event.Emit(context.Background(), d, OrderPlaced{ID: "1"})
		assert.True(t, shipped.Load())
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		d := event.New()
		var ok bool
		var name string
		event.On(d, func(ctx context.Context, e PaymentFailed) {
			_, ok = event.DispatcherFrom(ctx)
			name = event.EventName(ctx)
		})

		event.Dispatch(context.Background(), d, PaymentFailed{})

		assert.False(t, ok)
		assert.Empty(t, name)
		assert.True(t, event.DispatchStart(context.Background()).IsZero())
	})
}

func TestPublisher(t *testing.T) {
	t.Parallel()

	d := event.New()
	pub := event.NewPublisher[OrderPlaced](d)

	var syncCalls, asyncCalls atomic.Int32
	event.On(d, func(ctx context.Context, e OrderPlaced) { syncCalls.Add(1) })
	event.SubscribeAsync(d, func(ctx context.Context, e OrderPlaced) error {
		asyncCalls.Add(1)
		return nil
	})

	pub.Emit(context.Background(), OrderPlaced{})
	res := pub.Dispatch(context.Background(), OrderPlaced{})
	assert.Equal(t, 1, res.ListenerCount())

	res = pub.DispatchAsync(context.Background(), OrderPlaced{})
	assert.Equal(t, 1, res.ListenerCount())

	assert.Equal(t, int32(2), syncCalls.Load())
	assert.Equal(t, int32(1), asyncCalls.Load())
	assert.Equal(t, 2, pub.ListenerCount())
}
