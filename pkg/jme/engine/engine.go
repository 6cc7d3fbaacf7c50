package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/builtins"
	"github.com/randalmurphal/jme/pkg/jme/config"
	"github.com/randalmurphal/jme/pkg/jme/observability"
	"github.com/randalmurphal/jme/pkg/jme/store"
)

// Engine evaluates and simplifies expressions against the standard library
// and the rulesets saved in its store. It is safe for concurrent use.
type Engine struct {
	settings config.Settings
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	store    store.Store
	ownStore bool
	root     *jme.Scope

	mu     sync.RWMutex
	scope  *jme.Scope
	closed bool

	newRunID func() string
}

// New creates an engine.
//
// Without WithStore, definitions are kept in a SQLite database at the
// configured store path, or in memory when the path is empty. Rulesets
// already in the store are loaded; a stored ruleset that fails to load is
// logged and skipped.
//
// Example:
//
//	eng, err := engine.New(engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//	out, err := eng.Evaluate(ctx, "x^2 + 1", map[string]any{"x": 3})
func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine settings: %w", err)
	}

	e := &Engine{
		settings: cfg.settings,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		spans:    cfg.spans,
		store:    cfg.store,
		root:     cfg.scope,
		newRunID: func() string { return uuid.New().String() },
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.metrics == nil {
		e.metrics = observability.NoopMetrics{}
		if cfg.settings.Metrics {
			e.metrics = observability.NewMetricsRecorder()
		}
	}
	if e.spans == nil {
		e.spans = observability.NoopSpanManager{}
		if cfg.settings.Tracing {
			e.spans = observability.NewSpanManager()
		}
	}
	if e.root == nil {
		root, err := builtins.NewScope()
		if err != nil {
			return nil, err
		}
		e.root = root
	}
	if e.store == nil {
		st, err := openStore(cfg.settings.StorePath)
		if err != nil {
			return nil, err
		}
		e.store = st
		e.ownStore = true
	}

	e.scope = e.root
	if err := e.LoadRulesets(); err != nil {
		if e.ownStore {
			_ = e.store.Close()
		}
		return nil, err
	}
	return e, nil
}

// FromConfig creates an engine with the settings read from cfg. Options
// given after cfg take precedence.
func FromConfig(cfg config.Config, opts ...Option) (*Engine, error) {
	return New(append([]Option{WithSettings(config.SettingsFrom(cfg))}, opts...)...)
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// Settings returns the engine's settings.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Store returns the definition store.
func (e *Engine) Store() store.Store {
	return e.store
}

// Scope returns the scope expressions are evaluated in: the standard
// library plus the stored rulesets. Callers must not modify it; use
// Child to add bindings.
func (e *Engine) Scope() *jme.Scope {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scope
}

// Close closes the store if the engine opened it. Closing twice is a
// no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.ownStore {
		return e.store.Close()
	}
	return nil
}

// evaluator returns an evaluator with the configured limits. hook may be
// nil.
func (e *Engine) evaluator(hook jme.RewriteHook) *jme.Evaluator {
	opts := []jme.Option{
		jme.WithMaxDepth(e.settings.MaxDepth),
		jme.WithMaxIterations(e.settings.MaxIterations),
	}
	if hook != nil {
		opts = append(opts, jme.WithRewriteHook(hook))
	}
	return jme.NewEvaluator(opts...)
}
