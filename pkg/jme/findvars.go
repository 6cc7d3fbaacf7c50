package jme

import (
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// FindVars returns the free variable names of t, lowercased, in order of
// first appearance. Names in bound are not free. Functions in s may carry
// a FindVars hook for calls that bind names of their own; s may be nil.
func FindVars(t *token.Tree, bound []string, s *Scope) []string {
	if t == nil {
		return nil
	}
	switch tok := t.Tok.(type) {
	case token.Name:
		name := tok.Lower()
		if slices.Contains(bound, name) {
			return nil
		}
		return []string{name}
	case token.Op, token.Function:
		if s != nil {
			name, _ := token.CallName(tok)
			for _, def := range s.Functions(strings.ToLower(name)) {
				if def.FindVars != nil {
					return def.FindVars(t, bound, s)
				}
			}
		}
	}
	var out []string
	for _, arg := range t.Args {
		out = MergeVars(out, FindVars(arg, bound, s))
	}
	return out
}

// MergeVars appends the names of b not already in a.
func MergeVars(a, b []string) []string {
	for _, n := range b {
		if !slices.Contains(a, n) {
			a = append(a, n)
		}
	}
	return a
}

// BoundNames reads the names a binding construct introduces: a single name
// or a list literal of names. Other shapes bind nothing.
func BoundNames(t *token.Tree) []string {
	if t == nil {
		return nil
	}
	switch tok := t.Tok.(type) {
	case token.Name:
		return []string{tok.Lower()}
	case token.List:
		var out []string
		for _, arg := range t.Args {
			if n, ok := arg.Tok.(token.Name); ok {
				out = append(out, n.Lower())
			}
		}
		for _, item := range tok.Items {
			if n, ok := item.(token.Name); ok {
				out = append(out, n.Lower())
			}
		}
		return out
	default:
		return nil
	}
}
