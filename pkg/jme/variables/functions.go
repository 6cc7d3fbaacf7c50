package variables

import (
	"fmt"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// MakeFunction compiles a custom function. Calls bind the arguments to the
// parameter names in a child of the calling scope and evaluate the
// definition there.
func MakeFunction(src FunctionSource) (jme.FunctionDef, error) {
	if src.Name == "" {
		return jme.FunctionDef{}, fmt.Errorf("custom function without a name")
	}
	tree, err := parser.Compile(src.Definition)
	if err != nil {
		return jme.FunctionDef{}, fmt.Errorf("function %s: %w", src.Name, err)
	}
	if tree == nil {
		return jme.FunctionDef{}, fmt.Errorf("function %s: %w", src.Name, ErrEmptyDefinition)
	}

	params := make([]jme.Param, len(src.Parameters))
	for i, p := range src.Parameters {
		params[i] = jme.Param{Type: kindOf(p.Type)}
	}

	return jme.FunctionDef{
		Name:   src.Name,
		Params: params,
		Out:    kindOf(src.Type),
		Fn: func(env jme.Env, args []token.Token) (token.Token, error) {
			s := env.Scope().Child()
			for i, p := range src.Parameters {
				s.SetVariable(p.Name, args[i])
			}
			return env.EvaluateIn(tree, s)
		},
		Doc: src.Definition,
	}, nil
}

func kindOf(name string) token.Kind {
	if name == "" {
		return jme.Any
	}
	return token.Kind(name)
}
