package engine

import (
	"log/slog"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/config"
	"github.com/randalmurphal/jme/pkg/jme/observability"
	"github.com/randalmurphal/jme/pkg/jme/store"
)

// engineConfig holds construction options for an Engine.
type engineConfig struct {
	settings config.Settings
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	store    store.Store
	scope    *jme.Scope
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		settings: config.DefaultSettings(),
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithSettings replaces the engine settings.
// Default: config.DefaultSettings()
func WithSettings(s config.Settings) Option {
	return func(c *engineConfig) {
		c.settings = s
	}
}

// WithLogger sets the logger. Every operation logs through it with its
// run id attached.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetricsRecorder sets the metrics recorder, overriding the metrics
// setting.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		c.metrics = m
	}
}

// WithSpanManager sets the span manager, overriding the tracing setting.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		c.spans = sm
	}
}

// WithStore sets the definition store. The engine does not close a store
// it was given.
func WithStore(st store.Store) Option {
	return func(c *engineConfig) {
		c.store = st
	}
}

// WithScope sets the root scope, for hosts that register their own
// functions. Default: the standard library in a fresh registry.
//
// Example:
//
//	reg := jme.NewRegistry()
//	_ = builtins.Register(reg)
//	reg.Register(jme.HostFunc("price", ...))
//	eng, err := engine.New(engine.WithScope(reg.Scope()))
func WithScope(s *jme.Scope) Option {
	return func(c *engineConfig) {
		c.scope = s
	}
}
