package variables_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/builtins"
	"github.com/randalmurphal/jme/pkg/jme/token"
	"github.com/randalmurphal/jme/pkg/jme/variables"
)

func newScope(t *testing.T) *jme.Scope {
	t.Helper()
	s, err := builtins.NewScope()
	require.NoError(t, err)
	return s
}

func compile(t *testing.T, s *jme.Scope, doc variables.Document) *variables.Set {
	t.Helper()
	set, err := variables.Compile(doc, s)
	require.NoError(t, err)
	return set
}

func TestCompile(t *testing.T) {
	s := newScope(t)
	set := compile(t, s, variables.Document{Variables: map[string]string{
		"A":  "b+c",
		"b":  "map(x+k, x, [1,2])",
		"c":  "",
		"xs": "let(n, 2, n*k)",
	}})

	assert.Equal(t, []string{"a", "b", "c", "xs"}, set.Names())

	a, ok := set.Definition("a")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, a.Vars)
	assert.Equal(t, "b+c", a.Source)

	b, _ := set.Definition("B")
	assert.Equal(t, []string{"k"}, b.Vars, "lambda names are not dependencies")

	c, _ := set.Definition("c")
	assert.Nil(t, c.Tree)

	xs, _ := set.Definition("xs")
	assert.Equal(t, []string{"k"}, xs.Vars)
}

func TestCompile_JoinsErrors(t *testing.T) {
	_, err := variables.Compile(variables.Document{
		Variables: map[string]string{"a": "1+", "b": "(2", "c": "3"},
		Condition: "a >",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variable a")
	assert.Contains(t, err.Error(), "variable b")
	assert.Contains(t, err.Error(), "condition")
	assert.NotContains(t, err.Error(), "variable c")
}

func TestCompute(t *testing.T) {
	s := newScope(t)
	set := compile(t, s, variables.Document{Variables: map[string]string{
		"a": "b*c",
		"b": "c+1",
		"c": "2",
	}})

	scope := set.Scope(s)
	v, err := set.Compute(jme.NewEvaluator(), scope, "A")
	require.NoError(t, err)
	assert.Equal(t, token.NewReal(6), v)

	got, ok := scope.Variable("b")
	require.True(t, ok, "dependencies are stored in the scope")
	assert.Equal(t, token.NewReal(3), got)
}

func TestCompute_Errors(t *testing.T) {
	s := newScope(t)
	ev := jme.NewEvaluator()

	t.Run("circular reference has the full path", func(t *testing.T) {
		set := compile(t, s, variables.Document{Variables: map[string]string{
			"a": "b+1",
			"b": "c+1",
			"c": "a+1",
		}})
		_, err := set.Compute(ev, set.Scope(s), "a")

		var cerr *jme.CircularDependencyError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "a", cerr.Name)
		assert.Equal(t, []string{"a", "b", "c"}, cerr.Path)

		var derr *variables.DependencyError
		assert.False(t, errors.As(err, &derr), "cycles are not wrapped")
	})

	t.Run("self reference", func(t *testing.T) {
		set := compile(t, s, variables.Document{Variables: map[string]string{"a": "a+1"}})
		_, err := set.Compute(ev, set.Scope(s), "a")
		assert.ErrorIs(t, err, jme.ErrCircularDependency)
	})

	t.Run("undefined dependency", func(t *testing.T) {
		set := compile(t, s, variables.Document{Variables: map[string]string{"a": "b+1", "b": "z"}})
		_, err := set.Compute(ev, set.Scope(s), "a")

		var uerr *variables.UndefinedVariableError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "z", uerr.Name)
	})

	t.Run("empty definition", func(t *testing.T) {
		set := compile(t, s, variables.Document{Variables: map[string]string{"a": "  "}})
		_, err := set.Compute(ev, set.Scope(s), "a")
		assert.ErrorIs(t, err, variables.ErrEmptyDefinition)
	})

	t.Run("failing dependency is wrapped", func(t *testing.T) {
		set := compile(t, s, variables.Document{Variables: map[string]string{"a": "b+1", "b": "nosuch(1)"}})
		_, err := set.Compute(ev, set.Scope(s), "a")

		var derr *variables.DependencyError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "a", derr.Name)
		assert.Equal(t, "b", derr.Dependency)

		var eerr *variables.EvaluationError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, "b", eerr.Name)
		assert.ErrorIs(t, err, jme.ErrUndefinedFunction)
	})
}

func TestMakeAll(t *testing.T) {
	s := newScope(t)
	ev := jme.NewEvaluator()

	tests := []struct {
		name      string
		doc       variables.Document
		satisfied bool
		want      map[string]string
	}{
		{
			name:      "no condition",
			doc:       variables.Document{Variables: map[string]string{"a": "2", "b": "a^3"}},
			satisfied: true,
			want:      map[string]string{"a": "2", "b": "8"},
		},
		{
			name:      "condition holds",
			doc:       variables.Document{Variables: map[string]string{"a": "2", "b": "a^3"}, Condition: "a < 5"},
			satisfied: true,
			want:      map[string]string{"a": "2", "b": "8"},
		},
		{
			name:      "condition fails",
			doc:       variables.Document{Variables: map[string]string{"a": "2", "b": "a^3"}, Condition: "a > 5"},
			satisfied: false,
			want:      map[string]string{},
		},
		{
			name: "custom function",
			doc: variables.Document{
				Variables: map[string]string{"a": "double(4)", "b": `shout("hi")`},
				Functions: []variables.FunctionSource{
					{Name: "double", Parameters: []variables.ParamSource{{Name: "x", Type: "number"}}, Type: "number", Definition: "2x"},
					{Name: "shout", Parameters: []variables.ParamSource{{Name: "s"}}, Definition: `upper(s)+"!"`},
				},
			},
			satisfied: true,
			want:      map[string]string{"a": "8", "b": `"HI!"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := compile(t, s, tt.doc)
			res, err := set.MakeAll(ev, s)
			require.NoError(t, err)
			assert.Equal(t, tt.satisfied, res.ConditionSatisfied)

			got := make(map[string]string, len(res.Values))
			for name, v := range res.Values {
				got[name] = token.RenderToken(v)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMakeAll_ScopeValueWins(t *testing.T) {
	s := newScope(t).Child()
	s.SetVariable("a", token.NewReal(10))

	set := compile(t, s, variables.Document{Variables: map[string]string{"a": "1", "b": "a+1"}})
	res, err := set.MakeAll(jme.NewEvaluator(), s)
	require.NoError(t, err)
	assert.Equal(t, token.NewReal(11), res.Values["b"])

	_, ok := s.Variable("b")
	assert.False(t, ok, "the caller's scope is not modified")
}

func TestMakeAll_NonBooleanCondition(t *testing.T) {
	s := newScope(t)
	set := compile(t, s, variables.Document{Variables: map[string]string{"a": "1"}, Condition: "a+1"})
	_, err := set.MakeAll(jme.NewEvaluator(), s)
	assert.ErrorIs(t, err, jme.ErrType)
}

func TestGenerate(t *testing.T) {
	s := newScope(t)
	ev := jme.NewEvaluator()

	set := compile(t, s, variables.Document{
		Variables: map[string]string{"a": "random(1..6)"},
		Condition: "a <> 3",
	})
	res, err := set.Generate(ev, s, 1000)
	require.NoError(t, err)
	assert.True(t, res.ConditionSatisfied)
	assert.NotEqual(t, token.NewReal(3), res.Values["a"])

	never := compile(t, s, variables.Document{Variables: map[string]string{"a": "1"}, Condition: "a = 2"})
	_, err = never.Generate(ev, s, 5)
	assert.ErrorIs(t, err, variables.ErrConditionNotSatisfied)
}

func TestDependants(t *testing.T) {
	set := compile(t, nil, variables.Document{Variables: map[string]string{
		"a": "1",
		"b": "a+1",
		"c": "b*2",
		"d": "5",
		"e": "e+d",
	}})

	assert.Equal(t, []string{"b", "c"}, set.Dependants("a"))
	assert.Equal(t, []string{"e"}, set.Dependants("D"))
	assert.Empty(t, set.Dependants("c"))
}

func TestParseDocument(t *testing.T) {
	doc, err := variables.ParseDocument([]byte(`
variables:
  a: random(2..9)
  b: a^2
condition: b > 10
functions:
  - name: double
    parameters: [{name: x, type: number}]
    type: number
    definition: 2x
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "random(2..9)", "b": "a^2"}, doc.Variables)
	assert.Equal(t, "b > 10", doc.Condition)
	require.Len(t, doc.Functions, 1)
	assert.Equal(t, "number", doc.Functions[0].Parameters[0].Type)

	data, err := doc.Marshal()
	require.NoError(t, err)
	again, err := variables.ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, again)

	_, err = variables.ParseDocument([]byte("variables: ["))
	assert.Error(t, err)
}

func TestMakeFunction_Errors(t *testing.T) {
	_, err := variables.MakeFunction(variables.FunctionSource{Definition: "1"})
	assert.Error(t, err)
	_, err = variables.MakeFunction(variables.FunctionSource{Name: "f", Definition: "1+"})
	assert.Error(t, err)
	_, err = variables.MakeFunction(variables.FunctionSource{Name: "f"})
	assert.ErrorIs(t, err, variables.ErrEmptyDefinition)
}
