package jme

import (
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Any is the wildcard parameter type. It accepts a value of any kind.
const Any token.Kind = "?"

// Param is one slot of a function signature. A variadic slot consumes
// arguments for as long as they match its type.
type Param struct {
	Type     token.Kind
	Variadic bool
}

// Params parses a compact signature such as ("number", "*list", "?").
// A leading `*` marks a variadic slot.
func Params(spec ...string) []Param {
	out := make([]Param, len(spec))
	for i, s := range spec {
		variadic := strings.HasPrefix(s, "*")
		out[i] = Param{Type: token.Kind(strings.TrimPrefix(s, "*")), Variadic: variadic}
	}
	return out
}

// FunctionDef is one overload of a named function or operator.
//
// Exactly one of Fn and Lazy is set. Fn receives evaluated arguments. Lazy
// receives the argument trees unevaluated, and the evaluator calls the
// first overload's Lazy without type checking when that overload is lazy.
type FunctionDef struct {
	// ID is assigned by the Registry and orders overloads when scopes are
	// composed. Zero means unregistered.
	ID uint64

	// Name is the lowercased function or operator name.
	Name string

	// Params is the signature checked by the default type check.
	Params []Param

	// Out is the kind of the result, or Any.
	Out token.Kind

	// Typecheck overrides the signature check when set.
	Typecheck func(args []token.Token) bool

	Fn   func(env Env, args []token.Token) (token.Token, error)
	Lazy func(env Env, args []*token.Tree) (token.Token, error)

	// Substitute replaces the default variable substitution for calls of
	// this function. It receives the call node and a function that
	// substitutes into one subtree.
	Substitute func(call *token.Tree, sub func(*token.Tree) (*token.Tree, error)) (*token.Tree, error)

	// FindVars replaces the default free-variable search for calls of this
	// function.
	FindVars func(call *token.Tree, bound []string, s *Scope) []string

	// Doc is a one-line description used by listings.
	Doc string
}

// Accepts reports whether the overload can be applied to args.
func (d *FunctionDef) Accepts(args []token.Token) bool {
	if d.Typecheck != nil {
		return d.Typecheck(args)
	}
	return CheckParams(d.Params, args)
}

// CheckParams is the default type check. Fixed slots consume one argument
// of their type; variadic slots consume arguments while they match. Any
// arguments left over mean the check fails.
func CheckParams(params []Param, args []token.Token) bool {
	rest := args
	for _, p := range params {
		if p.Variadic {
			for len(rest) > 0 {
				if !kindMatches(p.Type, rest[0]) {
					return false
				}
				rest = rest[1:]
			}
			continue
		}
		if len(rest) == 0 || !kindMatches(p.Type, rest[0]) {
			return false
		}
		rest = rest[1:]
	}
	return len(rest) == 0
}

func kindMatches(want token.Kind, tok token.Token) bool {
	return want == Any || tok.Kind() == want
}

// Env is handed to function bodies. It evaluates subtrees in the current
// scope while keeping track of recursion depth.
type Env struct {
	ev    *Evaluator
	scope *Scope
	depth int
}

// Scope returns the scope of the call.
func (e Env) Scope() *Scope {
	return e.scope
}

// Evaluate substitutes and evaluates t in the call's scope.
func (e Env) Evaluate(t *token.Tree) (token.Token, error) {
	return e.ev.eval(t, e.scope, e.depth+1)
}

// EvaluateIn substitutes and evaluates t in another scope, usually a child
// of Scope() with extra variables bound.
func (e Env) EvaluateIn(t *token.Tree, s *Scope) (token.Token, error) {
	return e.ev.eval(t, s, e.depth+1)
}

// Evaluator returns the evaluator running the call.
func (e Env) Evaluator() *Evaluator {
	return e.ev
}
