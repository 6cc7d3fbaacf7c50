/*
Package jme evaluates and rewrites JME expressions.

# Overview

JME is a small mathematical expression language. This package holds the
pieces that give parsed trees meaning:
  - Scope, a layered environment of variables, function overloads and
    named rulesets
  - Evaluator, which substitutes variables and dispatches each call to the
    first overload whose type check accepts its arguments
  - Rule and Ruleset, pattern-based rewrites applied by Simplify

Tokenizing and parsing live in the lexer and parser packages; the token
package defines the values. The builtins package installs the standard
function library and rulesets into a Registry.

# Basic Usage

	reg := jme.NewRegistry()
	builtins.Register(reg)
	scope := reg.Scope()

	v, err := scope.Evaluate("3x + 1", map[string]any{"x": 5})
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(token.RenderToken(v)) // 16

# Overloads

A function name may have several definitions. They are tried in
registration order and the first whose type check passes is applied, so
`[1,2]+[3]` concatenates while `[1,2]+3` appends. Ids come from the
Registry that registered each definition; composing scopes keeps every
overload and orders them by id.

# Unbound Names

A name with no value evaluates to itself, marked Unbound. It only becomes
an error when no overload accepts it, which lets `isa(x, "name")` and
`isset(x)` look at names that are not defined.

# Rewriting

	out, err := ev.SimplifyExpression("2+3+x", jme.ParseRulesetSpec("all"), scope)
	// out == "x+5"

Patterns use a small meta vocabulary (?, ;name, m_any, m_commute and so
on; see MatchTree). Matching under commutative operators is greedy and
never backtracks.

# Limits

Evaluation depth and per-node rewrite iterations are bounded; see
WithMaxDepth and WithMaxIterations.
*/
package jme
