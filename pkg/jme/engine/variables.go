package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/jme/pkg/jme/observability"
	"github.com/randalmurphal/jme/pkg/jme/store"
	"github.com/randalmurphal/jme/pkg/jme/variables"
)

// VariableRun is the outcome of MakeVariables.
type VariableRun struct {
	*variables.Result
	RunID    string
	Runs     int
	Duration time.Duration
}

// MakeVariables compiles doc and computes its variables in a child of the
// engine scope. With maxRuns above one, a set whose condition fails is
// regenerated up to maxRuns times; otherwise a failed condition is
// reported in the result rather than as an error.
func (e *Engine) MakeVariables(ctx context.Context, doc variables.Document, maxRuns int) (out *VariableRun, runErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := e.newRunID()
	logger := observability.EnrichLogger(e.logger, runID, "variables")
	start := time.Now()

	ctx, span := e.spans.StartSpan(ctx, observability.SpanVariables, runID, fmt.Sprintf("%d variables", len(doc.Variables)))
	defer func() {
		duration := time.Since(start)
		e.spans.EndSpanWithError(span, runErr)
		if runErr != nil {
			logger.Error("variable generation failed", "error", runErr.Error(), "duration_ms", millis(duration))
			return
		}
		out.Duration = duration
		logger.Info("variables generated",
			"variables", len(out.Values),
			"condition_satisfied", out.ConditionSatisfied,
			"runs", out.Runs,
			"duration_ms", millis(duration))
	}()
	defer recoverRun(runID, "variables", &runErr)

	s := e.Scope()
	set, err := variables.Compile(doc, s)
	if err != nil {
		return nil, err
	}
	ev := e.evaluator(nil)

	runs := 0
	var res *variables.Result
	for runs < max(maxRuns, 1) {
		runs++
		res, err = set.MakeAll(ev, s)
		if err != nil {
			return nil, err
		}
		e.spans.AddSpanEvent(ctx, "run", attribute.Int("run", runs), attribute.Bool("condition_satisfied", res.ConditionSatisfied))
		if res.ConditionSatisfied {
			break
		}
	}
	if !res.ConditionSatisfied && maxRuns > 1 {
		return nil, fmt.Errorf("%w after %d runs", variables.ErrConditionNotSatisfied, runs)
	}
	return &VariableRun{Result: res, RunID: runID, Runs: runs}, nil
}

// SaveVariables checks that doc compiles and stores it under name.
// It returns the stored version.
func (e *Engine) SaveVariables(ctx context.Context, name string, doc variables.Document) (int, error) {
	if ctx == nil {
		return 0, ErrNilContext
	}
	if _, err := variables.Compile(doc, e.Scope()); err != nil {
		return 0, err
	}
	version, err := store.PutVariables(e.store, name, doc, e.newRunID())
	if err != nil {
		observability.LogStoreError(e.logger, "put", name, err)
		return 0, err
	}
	return version, nil
}

// LoadVariables returns the stored variable set name.
func (e *Engine) LoadVariables(name string) (variables.Document, error) {
	doc, err := store.GetVariables(e.store, name)
	if err != nil {
		observability.LogStoreError(e.logger, "get", name, err)
	}
	return doc, err
}

// RunVariables loads the stored variable set name and computes it.
func (e *Engine) RunVariables(ctx context.Context, name string, maxRuns int) (*VariableRun, error) {
	doc, err := e.LoadVariables(name)
	if err != nil {
		return nil, err
	}
	return e.MakeVariables(ctx, doc, maxRuns)
}
