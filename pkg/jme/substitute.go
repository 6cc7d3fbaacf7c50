package jme

import (
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Substitute returns t with every free name replaced by its value in s.
//
// An unbound name is an *UnboundVariableError unless allowUnbound is set,
// in which case it is left in place as written. Calls of functions with a
// Substitute hook, such as map and let, are handed to the hook so that
// names they bind themselves are not replaced.
//
// Subtrees without free names are shared with t, not copied.
func Substitute(t *token.Tree, s *Scope, allowUnbound bool) (*token.Tree, error) {
	if t == nil {
		return nil, nil
	}
	sub := func(c *token.Tree) (*token.Tree, error) {
		return Substitute(c, s, allowUnbound)
	}

	switch tok := t.Tok.(type) {
	case token.Name:
		if v, ok := s.Variable(tok.Name); ok {
			return token.Leaf(v), nil
		}
		if !allowUnbound {
			return nil, &UnboundVariableError{Name: tok.Name}
		}
		return t, nil
	case token.Op, token.Function:
		name, _ := token.CallName(tok)
		if hook := substituteHook(s, strings.ToLower(name)); hook != nil {
			return hook(t, sub)
		}
	}
	return mapArgs(t, sub)
}

func substituteHook(s *Scope, name string) func(*token.Tree, func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
	for _, def := range s.Functions(name) {
		if def.Substitute != nil {
			return def.Substitute
		}
	}
	return nil
}

// mapArgs applies f to every child of t. It returns t itself when no child
// changed.
func mapArgs(t *token.Tree, f func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
	var args []*token.Tree
	for i, arg := range t.Args {
		n, err := f(arg)
		if err != nil {
			return nil, err
		}
		if n != arg && args == nil {
			args = make([]*token.Tree, len(t.Args))
			copy(args, t.Args[:i])
		}
		if args != nil {
			args[i] = n
		}
	}
	if args == nil {
		return t, nil
	}
	return t.WithArgs(args), nil
}

// SubstituteArgs returns a Substitute hook that only substitutes into the
// listed arguments of a call. A negative index counts from the end.
func SubstituteArgs(indices ...int) func(*token.Tree, func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
	return func(call *token.Tree, sub func(*token.Tree) (*token.Tree, error)) (*token.Tree, error) {
		want := make(map[int]bool, len(indices))
		for _, i := range indices {
			if i < 0 {
				i += len(call.Args)
			}
			want[i] = true
		}
		i := -1
		return mapArgs(call, func(arg *token.Tree) (*token.Tree, error) {
			i++
			if !want[i] {
				return arg, nil
			}
			return sub(arg)
		})
	}
}

// substituteMatch replaces capture names in t with the captured subtrees.
// Names not in m are kept. No function hooks apply.
func substituteMatch(t *token.Tree, m Match) *token.Tree {
	if t == nil {
		return nil
	}
	if n, ok := t.Tok.(token.Name); ok {
		if v, ok := m[n.Lower()]; ok {
			return v
		}
		return t
	}
	out, _ := mapArgs(t, func(c *token.Tree) (*token.Tree, error) {
		return substituteMatch(c, m), nil
	})
	return out
}
