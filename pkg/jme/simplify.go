package jme

import (
	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// DefaultRuleset is used by SimplifyExpression when no spec is given.
const DefaultRuleset = "basic"

// Simplify rewrites t with the rules of rs until no rule applies.
//
// Children are simplified before their parent. At each node the rules are
// tried in order and the first that matches replaces the node; the node
// is then simplified again. A node of the form eval(x) is replaced by the
// value of x, computed with the functions of s but none of its variables.
//
// Each node may be rewritten at most MaxIterations times in a row before
// Simplify gives up with a *MaxIterationsError.
func (ev *Evaluator) Simplify(t *token.Tree, rs *Ruleset, s *Scope) (*token.Tree, error) {
	if t == nil {
		return nil, nil
	}
	return ev.simplify(t, rs.rules(), s.WithoutVariables())
}

// Simplify simplifies t with the default limits.
func Simplify(t *token.Tree, rs *Ruleset, s *Scope) (*token.Tree, error) {
	return NewEvaluator().Simplify(t, rs, s)
}

func (rs *Ruleset) rules() []*Rule {
	if rs == nil {
		return nil
	}
	return rs.Rules
}

func (ev *Evaluator) simplify(t *token.Tree, rules []*Rule, s *Scope) (*token.Tree, error) {
	for range ev.cfg.maxIterations {
		if token.IsFunction(t.Tok, "eval") && len(t.Args) == 1 {
			v, err := ev.Evaluate(t.Args[0], s)
			if err != nil {
				return nil, err
			}
			t = token.Leaf(v)
			continue
		}

		var err error
		t, err = mapArgs(t, func(c *token.Tree) (*token.Tree, error) {
			return ev.simplify(c, rules, s)
		})
		if err != nil {
			return nil, err
		}

		applied := false
		for _, r := range rules {
			m, ok, err := ev.Match(r, t, s)
			if err != nil {
				return nil, err
			}
			if ok {
				out := r.Apply(m)
				if ev.cfg.onRewrite != nil {
					ev.cfg.onRewrite(r, t, out)
				}
				t = out
				applied = true
				break
			}
		}
		if !applied {
			return t, nil
		}
	}
	return nil, &MaxIterationsError{Max: ev.cfg.maxIterations, Expr: token.Render(t)}
}

// SimplifyExpression compiles expr, simplifies it with the ruleset
// described by spec and renders the result. An empty spec means
// DefaultRuleset.
func (ev *Evaluator) SimplifyExpression(expr string, spec RulesetSpec, s *Scope, flags ...string) (string, error) {
	tree, err := parser.Compile(expr)
	if err != nil || tree == nil {
		return "", err
	}
	if len(spec) == 0 {
		spec = ParseRulesetSpec(DefaultRuleset)
	}
	rs, err := s.CollectRuleset(spec, flags...)
	if err != nil {
		return "", err
	}
	out, err := ev.Simplify(tree, rs, s)
	if err != nil {
		return "", err
	}
	return token.Render(out), nil
}
