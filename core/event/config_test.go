package event_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventbus/core/event"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("default config", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.DefaultConfig())
		require.NoError(t, err)

		event.On(d, func(ctx context.Context, e UserCreated) {})
		event.Dispatch(context.Background(), d, UserCreated{})

		_, ok := event.MetricsFor[UserCreated](d)
		assert.True(t, ok)
	})

	t.Run("empty config", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{})
		require.NoError(t, err)
		assert.NotNil(t, d)
	})

	t.Run("disable metrics", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{DisableMetrics: true})
		require.NoError(t, err)

		event.Dispatch(context.Background(), d, UserCreated{})
		assert.Empty(t, d.Metrics())
	})

	t.Run("recover infallible", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{RecoverInfallible: true})
		require.NoError(t, err)

		event.On(d, func(ctx context.Context, e UserCreated) { panic("boom") })
		assert.NotPanics(t, func() { event.Dispatch(context.Background(), d, UserCreated{}) })
	})

	t.Run("slow listener threshold", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))
		d, err := event.NewFromConfig(
			event.Config{SlowListenerThreshold: time.Millisecond},
			event.WithLogger(log),
		)
		require.NoError(t, err)

		event.On(d, func(ctx context.Context, e UserCreated) { time.Sleep(5 * time.Millisecond) })
		event.On(d, func(ctx context.Context, e OrderPlaced) {})
		event.Dispatch(context.Background(), d, UserCreated{})
		event.Dispatch(context.Background(), d, OrderPlaced{})

		out := buf.String()
		assert.Contains(t, out, "slow event listener")
		assert.Contains(t, out, "event_test.UserCreated#")
		assert.NotContains(t, out, "event_test.OrderPlaced#")
	})

	t.Run("options override config", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{DisableMetrics: true}, event.WithMetrics(true))
		require.NoError(t, err)

		event.Dispatch(context.Background(), d, UserCreated{})
		assert.NotEmpty(t, d.Metrics())
	})

	t.Run("invalid async mode", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{AsyncMode: "parallel"})
		assert.ErrorIs(t, err, event.ErrInvalidAsyncMode)
		assert.Nil(t, d)
	})

	t.Run("negative threshold", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewFromConfig(event.Config{SlowListenerThreshold: -time.Second})
		assert.Error(t, err)
		assert.Nil(t, d)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("EVENT_DISABLE_METRICS", "true")
	t.Setenv("EVENT_RECOVER_INFALLIBLE", "true")
	t.Setenv("EVENT_CONTEXT_METADATA", "true")
	t.Setenv("EVENT_SLOW_LISTENER_THRESHOLD", "250ms")
	t.Setenv("EVENT_ASYNC_MODE", "tiered")
	t.Setenv("EVENT_ASYNC_CONCURRENCY", "4")

	cfg, err := event.LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.DisableMetrics)
	assert.True(t, cfg.RecoverInfallible)
	assert.True(t, cfg.ContextMetadata)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowListenerThreshold)
	assert.Equal(t, event.AsyncTiered, cfg.AsyncMode)
	assert.Equal(t, 4, cfg.AsyncConcurrency)

	d, err := event.NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, d)
}
