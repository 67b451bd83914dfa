package event

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/eventbus/core/config"
)

// Config holds dispatcher settings with environment variable support.
type Config struct {
	DisableMetrics    bool `env:"EVENT_DISABLE_METRICS" envDefault:"false"`
	RecoverInfallible bool `env:"EVENT_RECOVER_INFALLIBLE" envDefault:"false"`
	ContextMetadata   bool `env:"EVENT_CONTEXT_METADATA" envDefault:"false"`

	// Zero disables slow listener warnings
	SlowListenerThreshold time.Duration `env:"EVENT_SLOW_LISTENER_THRESHOLD" envDefault:"0s"`

	AsyncMode        AsyncMode `env:"EVENT_ASYNC_MODE" envDefault:"sequential"`
	AsyncConcurrency int       `env:"EVENT_ASYNC_CONCURRENCY" envDefault:"0"` // tiered mode only; 0 = unbounded
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		AsyncMode: AsyncSequential,
	}
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Dispatcher from configuration.
// Additional options are applied after the config and override it.
func NewFromConfig(cfg Config, opts ...Option) (*Dispatcher, error) {
	mode := cfg.AsyncMode
	if mode == "" {
		mode = AsyncSequential
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAsyncMode, string(mode))
	}
	if cfg.SlowListenerThreshold < 0 {
		return nil, fmt.Errorf("event: negative slow listener threshold %s", cfg.SlowListenerThreshold)
	}

	configOpts := []Option{
		WithMetrics(!cfg.DisableMetrics),
		WithRecoverInfallible(cfg.RecoverInfallible),
		WithContextMetadata(cfg.ContextMetadata),
		WithSlowListenerThreshold(cfg.SlowListenerThreshold),
		WithAsyncMode(mode),
		WithAsyncConcurrency(cfg.AsyncConcurrency),
	}

	return New(append(configOpts, opts...)...), nil
}
