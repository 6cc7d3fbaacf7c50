package builtins

import (
	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Lazy operators receive their arguments as trees and decide what to
// evaluate. Those that bind names of their own also carry Substitute and
// FindVars hooks so that the bound names are left alone.

const defaultSatisfyRuns = 100

type lazyBody = func(env jme.Env, args []*token.Tree) (token.Token, error)

func (c catalog) lazy(def jme.FunctionDef, f lazyBody) {
	def.Lazy = f
	c.reg.Register(def)
}

func registerLazy(c catalog) {
	c.lazy(jme.FunctionDef{Name: "if", Out: jme.Any, Doc: "if(test, a, b)"}, lazyIf)
	c.lazy(jme.FunctionDef{Name: "switch", Out: jme.Any, Doc: "switch(test1, a1, test2, a2, default)"}, lazySwitch)
	c.lazy(jme.FunctionDef{Name: "isa", Out: token.KindBool, Doc: "x isa \"kind\""}, lazyIsa)
	c.lazy(jme.FunctionDef{Name: "repeat", Out: token.KindList, Doc: "repeat(expr, n)"}, lazyRepeat)
	c.lazy(jme.FunctionDef{
		Name:       "map",
		Out:        jme.Any,
		Doc:        "map(expr, name, collection)",
		Substitute: jme.SubstituteArgs(2),
		FindVars:   lambdaVars,
	}, lazyMap)
	c.lazy(jme.FunctionDef{
		Name:       "filter",
		Out:        token.KindList,
		Doc:        "filter(condition, name, list)",
		Substitute: jme.SubstituteArgs(2),
		FindVars:   lambdaVars,
	}, lazyFilter)
	c.lazy(jme.FunctionDef{
		Name:       "let",
		Out:        jme.Any,
		Doc:        "let(name1, value1, ..., expr)",
		Substitute: substituteLet,
		FindVars:   letVars,
	}, lazyLet)
	c.lazy(jme.FunctionDef{
		Name:       "satisfy",
		Out:        token.KindList,
		Doc:        "satisfy(names, definitions, conditions, maxRuns)",
		Substitute: jme.SubstituteArgs(3),
		FindVars:   satisfyVars,
	}, lazySatisfy)
	c.lazy(jme.FunctionDef{
		Name: "isset",
		Out:  token.KindBool,
		Doc:  "isset(name)",
		Substitute: func(call *token.Tree, _ func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
			return call, nil
		},
		FindVars: func(*token.Tree, []string, *jme.Scope) []string { return nil },
	}, lazyIsset)
}

func arity(fn string, args []*token.Tree, n int) error {
	if len(args) != n {
		return jme.NewTypeError(fn, "takes %d arguments, got %d", n, len(args))
	}
	return nil
}

func evalBool(fn string, env jme.Env, t *token.Tree, s *jme.Scope) (bool, error) {
	v, err := env.EvaluateIn(t, s)
	if err != nil {
		return false, err
	}
	b, ok := v.(token.Bool)
	if !ok {
		return false, jme.NewTypeError(fn, "condition %s is not a boolean", token.Render(t))
	}
	return b.Value, nil
}

func lazyIf(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("if", args, 3); err != nil {
		return nil, err
	}
	test, err := evalBool("if", env, args[0], env.Scope())
	if err != nil {
		return nil, err
	}
	if test {
		return env.Evaluate(args[1])
	}
	return env.Evaluate(args[2])
}

func lazySwitch(env jme.Env, args []*token.Tree) (token.Token, error) {
	if len(args) < 2 {
		return nil, jme.NewTypeError("switch", "needs at least one case")
	}
	for i := 0; i+1 < len(args); i += 2 {
		ok, err := evalBool("switch", env, args[i], env.Scope())
		if err != nil {
			return nil, err
		}
		if ok {
			return env.Evaluate(args[i+1])
		}
	}
	if len(args)%2 == 1 {
		return env.Evaluate(args[len(args)-1])
	}
	return nil, jme.NewRuntimeError("switch", "no default case")
}

// lazyIsa compares the kind of the unevaluated left operand. A name with
// no value has kind "name".
func lazyIsa(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("isa", args, 2); err != nil {
		return nil, err
	}
	kindTok, err := env.Evaluate(args[1])
	if err != nil {
		return nil, err
	}
	kind, ok := kindTok.(token.String)
	if !ok {
		return nil, jme.NewTypeError("isa", "kind must be a string")
	}
	if n, ok := args[0].Tok.(token.Name); ok {
		if _, bound := env.Scope().Variable(n.Name); !bound {
			return token.Bool{Value: kind.Value == string(token.KindName)}, nil
		}
	}
	if kind.Value == "complex" {
		n, ok := args[0].Tok.(token.Number)
		return token.Bool{Value: ok && token.IsComplex(n.Value)}, nil
	}
	return token.Bool{Value: string(args[0].Tok.Kind()) == kind.Value}, nil
}

func lazyRepeat(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("repeat", args, 2); err != nil {
		return nil, err
	}
	nTok, err := env.Evaluate(args[1])
	if err != nil {
		return nil, err
	}
	if _, ok := nTok.(token.Number); !ok {
		return nil, jme.NewTypeError("repeat", "count must be a number")
	}
	n, err := countArg("repeat", nTok)
	if err != nil {
		return nil, err
	}
	out := make([]token.Token, 0, max(n, 0))
	for range n {
		v, err := env.Evaluate(args[0])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return token.NewList(out...), nil
}

// binder assigns one element of a collection to the bound names: a single
// name takes the element, a list of names destructures it.
type binder struct {
	single string
	names  []string
}

func newBinder(fn string, t *token.Tree) (binder, error) {
	if n, ok := t.Tok.(token.Name); ok {
		return binder{single: n.Lower()}, nil
	}
	if _, ok := t.Tok.(token.List); ok {
		names := jme.BoundNames(t)
		if len(names) > 0 {
			return binder{names: names}, nil
		}
	}
	return binder{}, jme.NewTypeError(fn, "%s is not a name or a list of names", token.Render(t))
}

func (b binder) bind(fn string, s *jme.Scope, v token.Token) error {
	if b.single != "" {
		s.SetVariable(b.single, v)
		return nil
	}
	items, ok := v.(token.List)
	if !ok {
		return jme.NewTypeError(fn, "cannot destructure %s into %d names", token.RenderToken(v), len(b.names))
	}
	for i, name := range b.names {
		if i < len(items.Items) {
			s.SetVariable(name, items.Items[i])
		}
	}
	return nil
}

func lazyMap(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("map", args, 3); err != nil {
		return nil, err
	}
	b, err := newBinder("map", args[1])
	if err != nil {
		return nil, err
	}
	value, err := env.Evaluate(args[2])
	if err != nil {
		return nil, err
	}
	apply := func(v token.Token) (token.Token, error) {
		s := env.Scope().Child()
		if err := b.bind("map", s, v); err != nil {
			return nil, err
		}
		return env.EvaluateIn(args[0], s)
	}
	applyReal := func(x float64) (float64, error) {
		out, err := apply(realNum(x))
		if err != nil {
			return 0, err
		}
		if _, ok := out.(token.Number); !ok {
			return 0, jme.NewTypeError("map", "mapping over a %s must give numbers", value.Kind())
		}
		return realOnly("map", out)
	}

	switch v := value.(type) {
	case token.Vector:
		out := make([]float64, len(v.Values))
		for i, x := range v.Values {
			if out[i], err = applyReal(x); err != nil {
				return nil, err
			}
		}
		return token.Vector{Values: out}, nil
	case token.Matrix:
		rows := make([][]float64, len(v.Values))
		for i, row := range v.Values {
			rows[i] = make([]float64, len(row))
			for j, x := range row {
				if rows[i][j], err = applyReal(x); err != nil {
					return nil, err
				}
			}
		}
		return token.NewMatrix(rows), nil
	}

	items, ok := itemsOf(value)
	if !ok {
		return nil, jme.NewTypeError("map", "map not on enumerable %s", value.Kind())
	}
	out := make([]token.Token, len(items))
	for i, item := range items {
		if out[i], err = apply(item); err != nil {
			return nil, err
		}
	}
	return token.NewList(out...), nil
}

func lazyFilter(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("filter", args, 3); err != nil {
		return nil, err
	}
	b, err := newBinder("filter", args[1])
	if err != nil {
		return nil, err
	}
	value, err := env.Evaluate(args[2])
	if err != nil {
		return nil, err
	}
	if value.Kind() != token.KindList && value.Kind() != token.KindRange {
		return nil, jme.NewTypeError("filter", "map not on enumerable %s", value.Kind())
	}
	items, ok := itemsOf(value)
	if !ok {
		return nil, jme.NewTypeError("filter", "cannot filter a continuous range")
	}
	var out []token.Token
	for _, item := range items {
		s := env.Scope().Child()
		if err := b.bind("filter", s, item); err != nil {
			return nil, err
		}
		keep, err := evalBool("filter", env, args[0], s)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, item)
		}
	}
	return token.NewList(out...), nil
}

// lambdaVars finds the free variables of map and filter: the names bound
// by the second argument are not free in the expression.
func lambdaVars(call *token.Tree, bound []string, s *jme.Scope) []string {
	if len(call.Args) != 3 {
		return nil
	}
	inner := append(append([]string(nil), bound...), jme.BoundNames(call.Args[1])...)
	return jme.MergeVars(jme.FindVars(call.Args[0], inner, s), jme.FindVars(call.Args[2], bound, s))
}

func checkLet(args []*token.Tree) error {
	if len(args) < 3 || len(args)%2 != 1 {
		return jme.NewTypeError("let", "needs name, value pairs followed by an expression")
	}
	for i := 0; i < len(args)-1; i += 2 {
		if _, ok := args[i].Tok.(token.Name); !ok {
			return jme.NewTypeError("let", "%s is not a name", token.Render(args[i]))
		}
	}
	return nil
}

func lazyLet(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := checkLet(args); err != nil {
		return nil, err
	}
	s := env.Scope().Child()
	for i := 0; i < len(args)-1; i += 2 {
		v, err := env.Evaluate(args[i+1])
		if err != nil {
			return nil, err
		}
		s.SetVariable(args[i].Tok.(token.Name).Name, v)
	}
	return env.EvaluateIn(args[len(args)-1], s)
}

// substituteLet substitutes into the values of a let but neither its names
// nor its expression.
func substituteLet(call *token.Tree, sub func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
	var indices []int
	for i := 1; i < len(call.Args)-1; i += 2 {
		indices = append(indices, i)
	}
	return jme.SubstituteArgs(indices...)(call, sub)
}

func letVars(call *token.Tree, bound []string, s *jme.Scope) []string {
	if len(call.Args) == 0 {
		return nil
	}
	var vars []string
	inner := append([]string(nil), bound...)
	for i := 0; i+1 < len(call.Args); i += 2 {
		vars = jme.MergeVars(vars, jme.FindVars(call.Args[i+1], bound, s))
		inner = append(inner, jme.BoundNames(call.Args[i])...)
	}
	return jme.MergeVars(vars, jme.FindVars(call.Args[len(call.Args)-1], inner, s))
}

func listArgs(fn string, t *token.Tree) ([]*token.Tree, error) {
	if l, ok := t.Tok.(token.List); ok && l.Pending {
		return t.Args, nil
	}
	return nil, jme.NewTypeError(fn, "%s is not a list literal", token.Render(t))
}

// lazySatisfy draws values for the names from their definitions until every
// condition holds, at most maxRuns times.
func lazySatisfy(env jme.Env, args []*token.Tree) (token.Token, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, jme.NewTypeError("satisfy", "takes 3 or 4 arguments, got %d", len(args))
	}
	names := jme.BoundNames(args[0])
	definitions, err := listArgs("satisfy", args[1])
	if err != nil {
		return nil, err
	}
	conditions, err := listArgs("satisfy", args[2])
	if err != nil {
		return nil, err
	}
	if len(definitions) != len(names) {
		return nil, jme.NewRuntimeError("satisfy", "wrong number of definitions")
	}
	runs := defaultSatisfyRuns
	if len(args) == 4 {
		v, err := env.Evaluate(args[3])
		if err != nil {
			return nil, err
		}
		if _, ok := v.(token.Number); !ok {
			return nil, jme.NewTypeError("satisfy", "maxRuns must be a number")
		}
		if runs, err = toInt("satisfy", v); err != nil {
			return nil, err
		}
	}

	for range runs {
		s := env.Scope().Child()
		for i, def := range definitions {
			v, err := env.EvaluateIn(def, s)
			if err != nil {
				return nil, err
			}
			s.SetVariable(names[i], v)
		}
		satisfied := true
		for _, cond := range conditions {
			v, err := env.EvaluateIn(cond, s)
			if err != nil {
				return nil, err
			}
			b, ok := v.(token.Bool)
			if !ok {
				return nil, jme.NewRuntimeError("satisfy", "condition %s is not a boolean", token.Render(cond))
			}
			if !b.Value {
				satisfied = false
				break
			}
		}
		if satisfied {
			return token.NewList(lo.Map(names, func(n string, _ int) token.Token {
				v, _ := s.Variable(n)
				return v
			})...), nil
		}
	}
	return nil, jme.NewRuntimeError("satisfy", "took too many runs")
}

func satisfyVars(call *token.Tree, bound []string, s *jme.Scope) []string {
	if len(call.Args) == 0 {
		return nil
	}
	inner := append(append([]string(nil), bound...), jme.BoundNames(call.Args[0])...)
	var vars []string
	for _, arg := range call.Args[1:] {
		vars = jme.MergeVars(vars, jme.FindVars(arg, inner, s))
	}
	return vars
}

func lazyIsset(env jme.Env, args []*token.Tree) (token.Token, error) {
	if err := arity("isset", args, 1); err != nil {
		return nil, err
	}
	n, ok := args[0].Tok.(token.Name)
	if !ok {
		return nil, jme.NewTypeError("isset", "%s is not a name", token.Render(args[0]))
	}
	_, set := env.Scope().Variable(n.Name)
	return token.Bool{Value: set}, nil
}
