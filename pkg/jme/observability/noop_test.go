package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordEvaluation(context.Background(), time.Millisecond, nil)
		m.RecordEvaluation(context.Background(), 0, errors.New("x"))
		m.RecordSimplification(context.Background(), "all", 3, time.Millisecond, nil)
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartSpan(ctx, SpanEvaluate, "run", "1+1")
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		sm.EndSpanWithError(span, errors.New("x"))
	})
}
