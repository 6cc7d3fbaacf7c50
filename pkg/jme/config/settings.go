package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Settings are the engine settings read from a Config.
type Settings struct {
	// MaxDepth caps evaluation nesting.
	MaxDepth int

	// MaxIterations caps rewrites at a single node during simplification.
	MaxIterations int

	// DefaultRuleset is the ruleset spec used when simplifying without one.
	DefaultRuleset string

	// StorePath is the SQLite database of saved definitions. Empty means
	// an in-memory store.
	StorePath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	Metrics bool
	Tracing bool

	// DisplayFlags are ruleset flags applied to every simplification.
	DisplayFlags []string
}

// Defaults.
const (
	DefaultMaxDepth      = 10000
	DefaultMaxIterations = 1000
	DefaultRulesetSpec   = "all"
	DefaultLogLevel      = "info"
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxDepth:       DefaultMaxDepth,
		MaxIterations:  DefaultMaxIterations,
		DefaultRuleset: DefaultRulesetSpec,
		LogLevel:       DefaultLogLevel,
	}
}

// SettingsFrom reads Settings from cfg. Keys are looked up at the top
// level and under an "engine" section; missing keys take their defaults.
func SettingsFrom(cfg Config) Settings {
	d := DefaultSettings()
	sec := cfg.Sub("engine")
	pick := func(key string) Config {
		if cfg.Has(key) {
			return cfg
		}
		return sec
	}
	return Settings{
		MaxDepth:       pick("max_depth").Int("max_depth", d.MaxDepth),
		MaxIterations:  pick("max_iterations").Int("max_iterations", d.MaxIterations),
		DefaultRuleset: pick("default_ruleset").String("default_ruleset", d.DefaultRuleset),
		StorePath:      pick("store_path").String("store_path", d.StorePath),
		LogLevel:       strings.ToLower(pick("log_level").String("log_level", d.LogLevel)),
		Metrics:        pick("metrics").Bool("metrics", d.Metrics),
		Tracing:        pick("tracing").Bool("tracing", d.Tracing),
		DisplayFlags:   pick("display_flags").StringSlice("display_flags", d.DisplayFlags),
	}
}

// Validate reports every invalid setting.
func (s Settings) Validate() error {
	var errs []error
	if s.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", s.MaxDepth))
	}
	if s.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", s.MaxIterations))
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (s Settings) Level() slog.Level {
	l, err := ParseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", name)
	}
	return l, nil
}
