// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use (a
// missing file is ignored) and uses the caarlos0/env library for parsing
// environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/eventbus/core/config"
//
//	type DispatchConfig struct {
//		SlowListener time.Duration `env:"EVENT_SLOW_LISTENER_THRESHOLD" envDefault:"0s"`
//	}
//
//	var cfg DispatchConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process lifetime. Different
// types are cached independently, so changes to the environment after the first
// Load of a type are not observed for that type.
package config
