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

// Simplification is the outcome of Simplify.
type Simplification struct {
	RunID    string
	Ruleset  string
	Tree     *token.Tree
	Rewrites int
	Duration time.Duration
}

// String renders the simplified expression.
func (s *Simplification) String() string {
	return token.Render(s.Tree)
}

// Simplify compiles expr and rewrites it with the ruleset described by
// spec, a comma separated list of ruleset names, negated names and rules.
// An empty spec uses the configured default ruleset. The configured
// display flags apply to every simplification.
func (e *Engine) Simplify(ctx context.Context, expr, spec string) (out *Simplification, simpErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec == "" {
		spec = e.settings.DefaultRuleset
	}
	rspec := jme.ParseRulesetSpec(spec)

	runID := e.newRunID()
	logger := observability.EnrichLogger(e.logger, runID, "simplify")
	start := time.Now()
	rewrites := 0

	ctx, span := e.spans.StartSpan(ctx, observability.SpanSimplify, runID, expr)
	defer func() {
		duration := time.Since(start)
		e.spans.EndSpanWithError(span, simpErr)
		e.metrics.RecordSimplification(ctx, rspec.String(), rewrites, duration, simpErr)
		if simpErr != nil {
			logger.Error("simplification failed",
				"ruleset", rspec.String(),
				"error", simpErr.Error(),
				"duration_ms", millis(duration))
			return
		}
		out.Duration = duration
		observability.LogSimplifyComplete(e.logger, runID, rspec.String(), out.String(), rewrites, millis(duration))
	}()
	defer recoverRun(runID, "simplify", &simpErr)

	tree, err := parser.Compile(expr)
	if err != nil {
		return nil, err
	}
	s := e.Scope()
	rs, err := s.CollectRuleset(rspec, e.settings.DisplayFlags...)
	if err != nil {
		return nil, err
	}
	e.spans.AddSpanEvent(ctx, "ruleset collected", attribute.Int("rules", rs.Len()))

	ev := e.evaluator(func(r *jme.Rule, before, after *token.Tree) {
		rewrites++
		observability.LogRuleApplied(logger, r.String(), token.Render(before), token.Render(after))
	})
	result, err := ev.Simplify(tree, rs, s)
	if err != nil {
		return nil, err
	}
	return &Simplification{RunID: runID, Ruleset: rspec.String(), Tree: result, Rewrites: rewrites}, nil
}
