package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records an evaluation with its duration and error status.
	RecordEvaluation(ctx context.Context, duration time.Duration, err error)

	// RecordSimplification records a simplification and how many rules it applied.
	RecordSimplification(ctx context.Context, ruleset string, rewrites int, duration time.Duration, err error)
}

type otelMetrics struct {
	evaluations     metric.Int64Counter
	evalLatency     metric.Float64Histogram
	evalErrors      metric.Int64Counter
	simplifications metric.Int64Counter
	rewrites        metric.Int64Counter
	simplifyLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the instruments on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("jme")

	evaluations, err := meter.Int64Counter("jme.evaluations",
		metric.WithDescription("Number of evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("jme.evaluation.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("jme.evaluation.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	simplifications, err := meter.Int64Counter("jme.simplifications",
		metric.WithDescription("Number of simplifications"),
	)
	if err != nil {
		return nil, err
	}

	rewrites, err := meter.Int64Counter("jme.simplify.rewrites",
		metric.WithDescription("Number of rules applied during simplification"),
	)
	if err != nil {
		return nil, err
	}

	simplifyLatency, err := meter.Float64Histogram("jme.simplify.latency_ms",
		metric.WithDescription("Simplification latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:     evaluations,
		evalLatency:     evalLatency,
		evalErrors:      evalErrors,
		simplifications: simplifications,
		rewrites:        rewrites,
		simplifyLatency: simplifyLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEvaluation(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, millis(duration), attrs)
	if err != nil {
		m.evalErrors.Add(ctx, 1)
	}
}

func (m *otelMetrics) RecordSimplification(ctx context.Context, ruleset string, rewrites int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("ruleset", ruleset),
		attribute.Bool("success", err == nil),
	)
	m.simplifications.Add(ctx, 1, attrs)
	m.rewrites.Add(ctx, int64(rewrites), metric.WithAttributes(attribute.String("ruleset", ruleset)))
	m.simplifyLatency.Record(ctx, millis(duration), attrs)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
