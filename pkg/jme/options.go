package jme

import "github.com/randalmurphal/jme/pkg/jme/token"

// RewriteHook is called by Simplify after each rule application.
type RewriteHook func(r *Rule, before, after *token.Tree)

// evalConfig holds the limits of an Evaluator.
type evalConfig struct {
	maxDepth      int
	maxIterations int
	onRewrite     RewriteHook
}

// defaultEvalConfig returns the default limits.
func defaultEvalConfig() evalConfig {
	return evalConfig{
		maxDepth:      10000,
		maxIterations: 1000,
	}
}

// Option configures an Evaluator.
type Option func(*evalConfig)

// WithMaxDepth sets how deeply evaluation may nest.
// Default: 10000
//
// Nesting counts every evaluated subtree and every re-entry from a lazy
// function such as repeat or map. Exceeding it returns a *MaxDepthError.
//
// Example:
//
//	ev := jme.NewEvaluator(jme.WithMaxDepth(500))
func WithMaxDepth(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithMaxIterations sets how many rules may be applied in a row at a
// single node during Simplify.
// Default: 1000
//
// A ruleset whose rules undo each other would otherwise loop forever. If a
// node exceeds this limit, Simplify returns a *MaxIterationsError.
//
// Example:
//
//	ev := jme.NewEvaluator(jme.WithMaxIterations(50))
//	out, err := ev.Simplify(tree, rules, scope)
func WithMaxIterations(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithRewriteHook registers a function called after every rule applied by
// Simplify. The hook must be safe for concurrent use if the Evaluator is
// shared.
func WithRewriteHook(h RewriteHook) Option {
	return func(c *evalConfig) {
		c.onRewrite = h
	}
}
