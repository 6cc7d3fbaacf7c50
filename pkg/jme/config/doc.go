// Package config loads engine configuration.
//
// A Config is a thin typed view over map[string]any, as produced by
// decoding a YAML or JSON file. Accessors never fail: a missing key or a
// value of the wrong type yields the supplied default. Dotted keys reach
// into nested maps.
//
//	cfg, err := config.Load("jme.yaml")
//	if err != nil {
//	    return err
//	}
//	settings := config.SettingsFrom(cfg)
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//
// A configuration file looks like:
//
//	engine:
//	  max_depth: 500
//	  max_iterations: 200
//	  default_ruleset: all, !collectNumbers
//	  display_flags: [fractionnumbers]
//	store_path: /var/lib/jme/defs.db
//	log_level: debug
//	metrics: true
//	tracing: false
//
// Environment variables prefixed with JME_ override file values at the top
// level, so JME_LOG_LEVEL=warn replaces log_level.
package config
