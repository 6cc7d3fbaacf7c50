package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/observability"
	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Evaluation is the outcome of Evaluate.
type Evaluation struct {
	RunID    string
	Value    token.Token
	Duration time.Duration
}

// String renders the value as JME.
func (ev *Evaluation) String() string {
	return token.RenderToken(ev.Value)
}

// Evaluate compiles expr and evaluates it in the engine scope with vars
// bound. Host values are converted with jme.WrapValue.
func (e *Engine) Evaluate(ctx context.Context, expr string, vars map[string]any) (*Evaluation, error) {
	s, err := e.Scope().WithValues(vars)
	if err != nil {
		return nil, err
	}
	return e.EvaluateIn(ctx, expr, s)
}

// EvaluateIn compiles expr and evaluates it in s, which should descend
// from Scope.
func (e *Engine) EvaluateIn(ctx context.Context, expr string, s *jme.Scope) (out *Evaluation, evalErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := e.newRunID()
	observability.LogEvalStart(e.logger, runID, expr)
	start := time.Now()

	ctx, span := e.spans.StartSpan(ctx, observability.SpanEvaluate, runID, expr)
	defer func() {
		duration := time.Since(start)
		e.spans.EndSpanWithError(span, evalErr)
		e.metrics.RecordEvaluation(ctx, duration, evalErr)
		if evalErr != nil {
			observability.LogEvalError(e.logger, runID, evalErr, millis(duration))
			return
		}
		out.Duration = duration
		observability.LogEvalComplete(e.logger, runID, out.String(), millis(duration))
	}()
	defer recoverRun(runID, "evaluate", &evalErr)

	tree, err := parser.Compile(expr)
	if err != nil {
		return nil, err
	}
	e.spans.AddSpanEvent(ctx, "compiled", attribute.Int("vars", len(jme.FindVars(tree, nil, s))))

	v, err := e.evaluator(nil).Evaluate(tree, s)
	if err != nil {
		return nil, err
	}
	return &Evaluation{RunID: runID, Value: v}, nil
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
