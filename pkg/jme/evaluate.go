package jme

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Evaluator evaluates trees against scopes. Its limits are fixed at
// construction; an Evaluator is safe for concurrent use.
type Evaluator struct {
	cfg evalConfig
}

// NewEvaluator creates an evaluator with the given options.
func NewEvaluator(opts ...Option) *Evaluator {
	cfg := defaultEvalConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Evaluator{cfg: cfg}
}

// MaxDepth returns the nesting limit.
func (ev *Evaluator) MaxDepth() int { return ev.cfg.maxDepth }

// MaxIterations returns the per-node rewrite limit used by Simplify.
func (ev *Evaluator) MaxIterations() int { return ev.cfg.maxIterations }

// Evaluate evaluates t in s with the default limits.
func Evaluate(t *token.Tree, s *Scope) (token.Token, error) {
	return NewEvaluator().Evaluate(t, s)
}

// Evaluate substitutes the variables of s into t and evaluates the result.
//
// Names with no value are not an error here: they evaluate to a Name
// token marked Unbound, and only fail when a function rejects them. This
// lets isa and isset inspect unbound names.
func (ev *Evaluator) Evaluate(t *token.Tree, s *Scope) (token.Token, error) {
	return ev.eval(t, s, 0)
}

func (ev *Evaluator) eval(t *token.Tree, s *Scope, depth int) (token.Token, error) {
	if t == nil {
		return nil, ErrEmptyExpression
	}
	if depth > ev.cfg.maxDepth {
		return nil, &MaxDepthError{Max: ev.cfg.maxDepth}
	}
	sub, err := Substitute(t, s, true)
	if err != nil {
		return nil, err
	}
	return ev.evalTree(sub, s, depth)
}

// evalTree evaluates an already substituted tree.
func (ev *Evaluator) evalTree(t *token.Tree, s *Scope, depth int) (token.Token, error) {
	if depth > ev.cfg.maxDepth {
		return nil, &MaxDepthError{Max: ev.cfg.maxDepth}
	}
	switch tok := t.Tok.(type) {
	case token.Number, token.String, token.Bool, token.Range,
		token.Set, token.Vector, token.Matrix:
		return tok, nil
	case token.List:
		if !tok.Pending {
			return tok, nil
		}
		items := make([]token.Token, len(t.Args))
		for i, arg := range t.Args {
			v, err := ev.evalTree(arg, s, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return token.NewList(items...), nil
	case token.Name:
		if v, ok := s.Variable(tok.Name); ok {
			return v, nil
		}
		tok.Unbound = true
		return tok, nil
	case token.Op:
		return ev.call(tok.Name, false, t, s, depth)
	case token.Function:
		return ev.call(tok.Lower(), true, t, s, depth)
	case token.Punc:
		return nil, fmt.Errorf("jme: cannot evaluate punctuation %q", tok.Value)
	default:
		return nil, fmt.Errorf("jme: cannot evaluate token of kind %s", tok.Kind())
	}
}

// call dispatches an operator or function application. When the first
// overload is lazy it receives the argument trees as they are. Otherwise
// every argument is evaluated and the first overload whose type check
// accepts them is applied.
func (ev *Evaluator) call(name string, isFunc bool, t *token.Tree, s *Scope, depth int) (token.Token, error) {
	defs := s.Functions(name)
	if len(defs) == 0 {
		if !isFunc {
			return nil, &UndefinedOperatorError{Name: name}
		}
		return nil, undefinedFunction(name, s)
	}

	env := Env{ev: ev, scope: s, depth: depth}
	if defs[0].Lazy != nil {
		return defs[0].Lazy(env, t.Args)
	}

	args := make([]token.Token, len(t.Args))
	for i, arg := range t.Args {
		v, err := ev.evalTree(arg, s, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	for _, def := range defs {
		if def.Fn == nil || !def.Accepts(args) {
			continue
		}
		return def.Fn(env, args)
	}

	nerr := &NoMatchingOverloadError{Name: name, Args: make([]token.Kind, len(args))}
	for i, a := range args {
		nerr.Args[i] = a.Kind()
		if n, ok := a.(token.Name); ok && nerr.UnboundArg == "" {
			nerr.UnboundArg = n.Name
		}
	}
	return nil, nerr
}

// undefinedFunction builds the error for an unknown function name, with a
// hint when the name looks like a variable run into a function call.
func undefinedFunction(name string, s *Scope) error {
	err := &UndefinedFunctionError{Name: name}
	if len(name) > 1 && s.HasFunction(name[1:]) {
		err.Split = name[1:]
		return err
	}
	err.Suggestions = suggest(name, s.FunctionNames())
	return err
}

const maxSuggestions = 3

// suggest returns known names that look like a misspelling of name.
func suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			return out
		}
		out = append(out, r.Target)
	}
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		if slices.Contains(out, c) || !looksLike(name, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func looksLike(a, b string) bool {
	return fuzzy.LevenshteinDistance(a, b) <= max(1, len(a)/4)
}
