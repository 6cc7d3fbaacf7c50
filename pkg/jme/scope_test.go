package jme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// testRegistry holds a handful of definitions, enough to exercise
// dispatch without the standard library.
func testRegistry() *jme.Registry {
	reg := jme.NewRegistry()
	reg.Register(jme.FunctionDef{
		Name:   "+",
		Params: jme.Params("number", "number"),
		Out:    token.KindNumber,
		Fn: func(_ jme.Env, args []token.Token) (token.Token, error) {
			a := token.RealPart(args[0].(token.Number).Value)
			b := token.RealPart(args[1].(token.Number).Value)
			return token.NewReal(a + b), nil
		},
	})
	reg.Register(jme.FunctionDef{
		Name:   "kind",
		Params: jme.Params("number"),
		Out:    token.KindString,
		Fn:     constant(token.String{Value: "number"}),
	})
	reg.Register(jme.FunctionDef{
		Name:   "kind",
		Params: jme.Params("?"),
		Out:    token.KindString,
		Fn:     constant(token.String{Value: "any"}),
	})
	reg.Register(jme.FunctionDef{
		Name: "quote",
		Out:  token.KindString,
		Lazy: func(_ jme.Env, args []*token.Tree) (token.Token, error) {
			return token.String{Value: token.Render(args[0])}, nil
		},
	})
	reg.Register(jme.FunctionDef{
		Name:   "sqrt",
		Params: jme.Params("number"),
		Fn:     constant(token.NewReal(0)),
	})
	return reg
}

func constant(tok token.Token) func(jme.Env, []token.Token) (token.Token, error) {
	return func(jme.Env, []token.Token) (token.Token, error) { return tok, nil }
}

func TestScope_Variables(t *testing.T) {
	root := jme.NewScope()
	root.SetVariable("X", token.NewReal(1))
	root.SetVariable("y", token.NewReal(2))

	child := root.Child()
	child.SetVariable("x", token.NewReal(10))

	v, ok := child.Variable("x")
	require.True(t, ok)
	assert.Equal(t, token.NewReal(10), v)

	v, ok = root.Variable("x")
	require.True(t, ok)
	assert.Equal(t, token.NewReal(1), v, "child must not change its parent")

	v, ok = child.Variable("Y")
	require.True(t, ok)
	assert.Equal(t, token.NewReal(2), v)

	_, ok = child.Variable("z")
	assert.False(t, ok)

	assert.Equal(t, map[string]token.Token{
		"x": token.NewReal(10),
		"y": token.NewReal(2),
	}, child.Variables())
}

func TestScope_WithoutVariables(t *testing.T) {
	root := testRegistry().Scope()
	root.SetVariable("x", token.NewReal(1))

	hidden := root.WithoutVariables()
	_, ok := hidden.Variable("x")
	assert.False(t, ok)
	assert.Empty(t, hidden.Variables())
	assert.True(t, hidden.HasFunction("kind"))

	inner := hidden.Child()
	inner.SetVariable("y", token.NewReal(2))
	_, ok = inner.Variable("y")
	assert.True(t, ok)
	_, ok = inner.Variable("x")
	assert.False(t, ok)
}

func TestNewScope_ComposesParents(t *testing.T) {
	a := jme.NewScope()
	a.SetVariable("x", token.NewReal(1))
	a.SetVariable("y", token.NewReal(1))
	b := jme.NewScope()
	b.SetVariable("x", token.NewReal(2))

	s := jme.NewScope(a, nil, b)

	v, _ := s.Variable("x")
	assert.Equal(t, token.NewReal(2), v, "later parents win")
	v, _ = s.Variable("y")
	assert.Equal(t, token.NewReal(1), v)
}

func TestScope_OverloadOrder(t *testing.T) {
	reg := jme.NewRegistry()
	first := reg.Register(jme.FunctionDef{Name: "f", Params: jme.Params("number"), Fn: constant(token.String{Value: "first"})})
	second := reg.Register(jme.FunctionDef{Name: "F", Params: jme.Params("number"), Fn: constant(token.String{Value: "second"})})
	local := &jme.FunctionDef{Name: "f", Params: jme.Params("number"), Fn: constant(token.String{Value: "local"})}

	a := jme.NewScope()
	a.AddFunction(second)
	a.AddFunction(local)
	b := jme.NewScope()
	b.AddFunction(first)

	s := jme.NewScope(a, b)
	assert.Equal(t, []*jme.FunctionDef{first, second, local}, s.Functions("f"))

	child := s.Child()
	child.AddFunction(first)
	assert.Equal(t, []*jme.FunctionDef{first, second, local}, child.Functions("F"), "a definition appears once")

	v, err := child.Evaluate("f(1)", nil)
	require.NoError(t, err)
	assert.Equal(t, token.String{Value: "first"}, v)
}

func TestScope_Rulesets(t *testing.T) {
	r1 := jme.MustRule("x+0", nil, "x")
	r2 := jme.MustRule("x*1", nil, "x")

	root := jme.NewScope()
	root.SetRuleset("Tidy", jme.NewRuleset([]*jme.Rule{r1}, map[string]bool{"rowvector": true}))
	child := root.Child()
	child.SetRuleset("tidy", jme.NewRuleset([]*jme.Rule{r2, r1}, nil))

	rs, ok := child.Ruleset("TIDY")
	require.True(t, ok)
	assert.Equal(t, []*jme.Rule{r1, r2}, rs.Rules)
	assert.True(t, rs.Flag("rowVector"))

	assert.Equal(t, []string{"tidy"}, child.RulesetNames())
	_, ok = child.Ruleset("other")
	assert.False(t, ok)
}

func TestScope_WithValues(t *testing.T) {
	s := jme.NewScope()

	same, err := s.WithValues(nil)
	require.NoError(t, err)
	assert.Same(t, s, same)

	c, err := s.WithValues(map[string]any{"n": 3, "name": "ada", "xs": []int{1, 2}})
	require.NoError(t, err)
	v, _ := c.Variable("n")
	assert.Equal(t, token.NewReal(3), v)
	v, _ = c.Variable("name")
	assert.Equal(t, token.String{Value: "ada"}, v)
	v, _ = c.Variable("xs")
	assert.Equal(t, token.NewList(token.NewReal(1), token.NewReal(2)), v)

	_, err = s.WithValues(map[string]any{"bad": struct{}{}})
	assert.Error(t, err)
}

func TestRegistry_Independent(t *testing.T) {
	a := jme.NewRegistry()
	b := jme.NewRegistry()

	da := a.Register(jme.FunctionDef{Name: "f"})
	db := b.Register(jme.FunctionDef{Name: "f"})
	assert.Equal(t, da.ID, db.ID, "registries keep separate id sequences")

	a.Register(jme.FunctionDef{Name: "g"})
	assert.Equal(t, []string{"f", "g"}, a.FunctionNames())
	assert.Equal(t, []string{"f"}, b.FunctionNames())
	assert.Greater(t, a.NextID(), da.ID)
}
