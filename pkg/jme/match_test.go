package jme_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func rendered(m jme.Match) map[string]string {
	out := make(map[string]string, len(m))
	for name, t := range m {
		out[name] = token.Render(t)
	}
	return out
}

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		expr    string
		commute bool
		ok      bool
		want    map[string]string
	}{
		{name: "captures operands", pattern: "?;a+?;b", expr: "1+2", ok: true, want: map[string]string{"a": "1", "b": "2"}},
		{name: "captures subtree", pattern: "?;a+1", expr: "x*2+1", ok: true, want: map[string]string{"a": "x*2"}},
		{name: "operator mismatch", pattern: "?+?", expr: "1*2", ok: false},
		{name: "literal", pattern: "x^2", expr: "x^2", ok: true, want: map[string]string{}},
		{name: "literal mismatch", pattern: "x^2", expr: "x^3", ok: false},
		{name: "names ignore case", pattern: "x", expr: "X", ok: true, want: map[string]string{}},
		{name: "function names ignore case", pattern: "sin(?;a)", expr: "SIN(x)", ok: true, want: map[string]string{"a": "x"}},
		{name: "number", pattern: "m_number;n*?;x", expr: "3*y", ok: true, want: map[string]string{"n": "3", "x": "y"}},
		{name: "number rejects name", pattern: "m_number", expr: "y", ok: false},
		{name: "nothing", pattern: "m_nothing", expr: "1", ok: false},
		{name: "any", pattern: "m_any(1,2);n", expr: "2", ok: true, want: map[string]string{"n": "2"}},
		{name: "not", pattern: "m_not(m_number)", expr: "x", ok: true, want: map[string]string{}},
		{name: "not rejects", pattern: "m_not(m_number)", expr: "2", ok: false},
		{name: "and", pattern: "m_and(?;a,m_uses(x))", expr: "x+1", ok: true, want: map[string]string{"a": "x+1"}},
		{name: "plus or minus", pattern: "m_pm(x);a", expr: "-x", ok: true, want: map[string]string{"a": "-x"}},
		{name: "plus or minus positive", pattern: "m_pm(x)", expr: "x", ok: true, want: map[string]string{}},
		{name: "uses", pattern: "m_uses(x)", expr: "x^2+1", ok: true, want: map[string]string{}},
		{name: "uses missing", pattern: "m_uses(x)", expr: "y", ok: false},
		{name: "type", pattern: "m_type(string)", expr: `"hi"`, ok: true, want: map[string]string{}},
		{name: "type mismatch", pattern: "m_type(string)", expr: "1", ok: false},
		{name: "list literal", pattern: "[?;a,2]", expr: "[1,2]", ok: true, want: map[string]string{"a": "1"}},
		{name: "list length", pattern: "[?,?]", expr: "[1]", ok: false},
		{name: "order matters", pattern: "?;a*2", expr: "2*x", ok: false},

		{name: "commute reorders", pattern: "?;a*2", expr: "2*x", commute: true, ok: true, want: map[string]string{"a": "x"}},
		{name: "commute in meta", pattern: "m_commute(?;a*2)", expr: "2*x", ok: true, want: map[string]string{"a": "x"}},
		{name: "commute minus as plus", pattern: "?;a+?;b", expr: "x-y", commute: true, ok: true, want: map[string]string{"a": "x", "b": "-y"}},
		{name: "commute all absorbs terms", pattern: "x+m_all(?);rest", expr: "x+y+z", commute: true, ok: true, want: map[string]string{"rest": "y+z"}},
		{name: "commute rest may be empty", pattern: "x+??", expr: "x", commute: true, ok: true, want: map[string]string{}},
		{name: "commute rest takes one term", pattern: "x+??", expr: "x+y+z", commute: true, ok: false},
		{name: "commute leftover pattern term", pattern: "x+y", expr: "x", commute: true, ok: false},
		// Terms are assigned greedily: x is taken by the alternative, so
		// the literal x is left with nothing to match.
		{name: "commute greedy assignment", pattern: "m_any(x,y);a+x", expr: "x+y", commute: true, ok: false},
		{name: "commute greedy assignment succeeds", pattern: "m_any(x,y);a+x", expr: "y+x", commute: true, ok: true, want: map[string]string{"a": "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := jme.MatchExpression(tt.pattern, tt.expr, tt.commute)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, rendered(m))
			}
		})
	}
}

func TestMatchExpression_PatternErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{name: "capture into number", pattern: "?;1"},
		{name: "meta without argument", pattern: "m_not()"},
		{name: "uses non-name", pattern: "m_uses(1)"},
		{name: "type of number", pattern: "m_type(1)"},
		{name: "empty pattern", pattern: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := jme.MatchExpression(tt.pattern, "x", false)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, jme.ErrPattern), "got %v", err)

			var perr *jme.PatternError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestMatchTree_NilExpression(t *testing.T) {
	m, ok, err := jme.MatchTree(token.Leaf(token.Name{Name: "?"}), nil, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
}
