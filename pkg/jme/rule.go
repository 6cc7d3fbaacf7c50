package jme

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Rule rewrites expressions that match Pattern, and satisfy every
// condition, into Result with the captures substituted.
type Rule struct {
	Pattern    *token.Tree
	Conditions []*token.Tree
	Result     *token.Tree

	source RuleSource
}

// RuleSource is the text a Rule was compiled from.
type RuleSource struct {
	Pattern    string   `yaml:"pattern" json:"pattern"`
	Conditions []string `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Result     string   `yaml:"result" json:"result"`
}

// NewRule compiles a rule.
func NewRule(pattern string, conditions []string, result string) (*Rule, error) {
	return RuleSource{Pattern: pattern, Conditions: conditions, Result: result}.Compile()
}

// MustRule is like NewRule but panics on error.
func MustRule(pattern string, conditions []string, result string) *Rule {
	r, err := NewRule(pattern, conditions, result)
	if err != nil {
		panic(err)
	}
	return r
}

// Compile parses the pattern, conditions and result.
func (src RuleSource) Compile() (*Rule, error) {
	pattern, err := parser.Compile(src.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule pattern %q: %w", src.Pattern, err)
	}
	if pattern == nil {
		return nil, &PatternError{Pattern: src.Pattern, Msg: "empty pattern"}
	}
	result, err := parser.Compile(src.Result)
	if err != nil {
		return nil, fmt.Errorf("rule result %q: %w", src.Result, err)
	}
	if result == nil {
		return nil, &PatternError{Pattern: src.Pattern, Msg: "empty result"}
	}
	r := &Rule{Pattern: pattern, Result: result, source: src}
	for _, c := range src.Conditions {
		cond, err := parser.Compile(c)
		if err != nil {
			return nil, fmt.Errorf("rule condition %q: %w", c, err)
		}
		if cond != nil {
			r.Conditions = append(r.Conditions, cond)
		}
	}
	return r, nil
}

// Source returns the text the rule was compiled from.
func (r *Rule) Source() RuleSource {
	return r.source
}

// String renders the rule as "pattern [if conditions] -> result".
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(token.Render(r.Pattern))
	if len(r.Conditions) > 0 {
		conds := make([]string, len(r.Conditions))
		for i, c := range r.Conditions {
			conds[i] = token.Render(c)
		}
		b.WriteString(" if ")
		b.WriteString(strings.Join(conds, ", "))
	}
	b.WriteString(" -> ")
	b.WriteString(token.Render(r.Result))
	return b.String()
}

// Match matches expr against the rule's pattern without commutative
// reordering, then checks the conditions in s.
func (ev *Evaluator) Match(r *Rule, expr *token.Tree, s *Scope) (Match, bool, error) {
	m, ok, err := MatchTree(r.Pattern, expr, false)
	if !ok || err != nil {
		return nil, false, err
	}
	if !ev.conditionsHold(r, m, s) {
		return nil, false, nil
	}
	return m, true, nil
}

// conditionsHold evaluates each condition with the captures in place. A
// condition holds only if it evaluates to true; an error means it does
// not.
func (ev *Evaluator) conditionsHold(r *Rule, m Match, s *Scope) bool {
	for _, c := range r.Conditions {
		v, err := ev.Evaluate(substituteMatch(c, m), s)
		if err != nil {
			return false
		}
		if b, ok := v.(token.Bool); !ok || !b.Value {
			return false
		}
	}
	return true
}

// Apply returns the rule's result with the captures of m substituted.
func (r *Rule) Apply(m Match) *token.Tree {
	return substituteMatch(r.Result, m)
}
