// Package observability provides logging, metrics and tracing for the
// expression engine.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds the run id and operation to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "simplify")
//	enriched.Info("loading rulesets") // includes run_id and op
func EnrichLogger(logger *slog.Logger, runID, op string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("op", op),
	)
}

// LogEvalStart logs the start of an evaluation.
func LogEvalStart(logger *slog.Logger, runID, expr string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("run_id", runID),
		slog.String("expr", expr),
	)
}

// LogEvalComplete logs a successful evaluation.
func LogEvalComplete(logger *slog.Logger, runID, result string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("evaluation completed",
		slog.String("run_id", runID),
		slog.String("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvalError logs a failed evaluation.
func LogEvalError(logger *slog.Logger, runID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSimplifyComplete logs a finished simplification.
func LogSimplifyComplete(logger *slog.Logger, runID, ruleset, result string, rewrites int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("simplification completed",
		slog.String("run_id", runID),
		slog.String("ruleset", ruleset),
		slog.String("result", result),
		slog.Int("rewrites", rewrites),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRuleApplied logs a single rewrite.
func LogRuleApplied(logger *slog.Logger, rule, before, after string) {
	if logger == nil {
		return
	}
	logger.Debug("rule applied",
		slog.String("rule", rule),
		slog.String("before", before),
		slog.String("after", after),
	)
}

// LogStoreError logs a failed store operation (non-fatal).
func LogStoreError(logger *slog.Logger, op, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("operation", op),
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
