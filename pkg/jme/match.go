package jme

import (
	"maps"
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Match maps capture names to the subtrees they matched.
type Match map[string]*token.Tree

// Pattern vocabulary. These names and functions change how a pattern
// matches; they have no meaning as ordinary JME.
//
//	?, ??           match anything
//	p;name          match p and capture the subtree as name
//	m_number        match a number literal
//	m_nothing       never match
//	m_any(p, ...)   match the first alternative that matches
//	m_all(p)        match p; may absorb several terms of a sum or product
//	m_not(p)        match when p does not
//	m_and(p, ...)   match when every alternative does
//	m_pm(p)         match p or -p
//	m_uses(a, ...)  match when the names a, ... occur free
//	m_commute(p)    match p allowing + * and = operands in any order
//	m_type(kind)    match a token of the given kind
const (
	wildcard     = "?"
	wildcardRest = "??"
	captureOp    = ";"
)

// endTermNames are the pattern names that absorb what the other terms of
// a commutative match leave over.
var endTermNames = map[string]bool{
	wildcardRest: true,
	"m_nothing":  true,
	"m_number":   true,
}

// MatchExpression compiles pattern and expr and matches them.
func MatchExpression(pattern, expr string, commute bool) (Match, bool, error) {
	p, err := parser.Compile(pattern)
	if err != nil {
		return nil, false, err
	}
	e, err := parser.Compile(expr)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, &PatternError{Pattern: pattern, Msg: "empty pattern"}
	}
	return MatchTree(p, e, commute)
}

// MatchTree matches expr against pattern. It reports the captured
// subtrees and whether the match succeeded. The only error is a malformed
// pattern.
//
// With commute set, the operands of + * and = may appear in any order.
// Commutative matching is greedy: each term of expr is given to the first
// pattern term that accepts it, and that choice is never revisited. A
// pattern that could only match with a different assignment of terms does
// not match.
func MatchTree(pattern, expr *token.Tree, commute bool) (Match, bool, error) {
	if expr == nil {
		return nil, false, nil
	}

	if token.IsOp(pattern.Tok, captureOp) {
		name, err := captureName(pattern)
		if err != nil {
			return nil, false, err
		}
		m, ok, err := MatchTree(pattern.Args[0], expr, commute)
		if !ok || err != nil {
			return nil, false, err
		}
		m[name] = expr
		return m, true, nil
	}

	switch tok := pattern.Tok.(type) {
	case token.Name:
		switch tok.Lower() {
		case wildcard, wildcardRest:
			return Match{}, true, nil
		case "m_number":
			_, ok := expr.Tok.(token.Number)
			return matched(ok)
		case "m_nothing":
			return nil, false, nil
		}
	case token.Function:
		if name := tok.Lower(); metaFunctions[name] {
			return matchMeta(name, pattern, expr, commute)
		}
	}

	if _, isOp := pattern.Tok.(token.Op); !isOp && pattern.Tok.Kind() != expr.Tok.Kind() {
		return nil, false, nil
	}

	switch tok := pattern.Tok.(type) {
	case token.Number, token.String, token.Bool, token.Range,
		token.Set, token.Vector, token.Matrix:
		return matched(token.TokenEqual(tok, expr.Tok))
	case token.List:
		el, _ := expr.Tok.(token.List)
		if !tok.Pending || !el.Pending {
			return matched(token.TokenEqual(tok, expr.Tok))
		}
		return matchArgs(pattern, expr, commute)
	case token.Op:
		if commute && token.Commutative(tok.Name) {
			return matchCommutative(pattern, expr, tok.Name)
		}
		if !token.IsOp(expr.Tok, tok.Name) {
			return nil, false, nil
		}
		return matchArgs(pattern, expr, commute)
	case token.Function:
		ef, ok := expr.Tok.(token.Function)
		if !ok || ef.Lower() != tok.Lower() {
			return nil, false, nil
		}
		return matchArgs(pattern, expr, commute)
	case token.Name:
		en, ok := expr.Tok.(token.Name)
		return matched(ok && strings.EqualFold(en.Name, tok.Name))
	default:
		return Match{}, true, nil
	}
}

func matched(ok bool) (Match, bool, error) {
	if !ok {
		return nil, false, nil
	}
	return Match{}, true, nil
}

func captureName(pattern *token.Tree) (string, error) {
	if len(pattern.Args) == 2 {
		if n, ok := pattern.Args[1].Tok.(token.Name); ok {
			return n.Lower(), nil
		}
	}
	return "", &PatternError{Pattern: token.Render(pattern), Msg: "capture target must be a name"}
}

var metaFunctions = map[string]bool{
	"m_any":     true,
	"m_all":     true,
	"m_pm":      true,
	"m_not":     true,
	"m_and":     true,
	"m_uses":    true,
	"m_commute": true,
	"m_type":    true,
}

// matchMeta handles the m_ pattern functions.
func matchMeta(name string, pattern, expr *token.Tree, commute bool) (Match, bool, error) {
	args := pattern.Args
	if len(args) == 0 && name != "m_any" && name != "m_and" && name != "m_uses" {
		return nil, false, &PatternError{Pattern: token.Render(pattern), Msg: name + " needs an argument"}
	}

	switch name {
	case "m_any":
		for _, alt := range args {
			m, ok, err := MatchTree(alt, expr, commute)
			if ok || err != nil {
				return m, ok, err
			}
		}
		return nil, false, nil

	case "m_all":
		return MatchTree(args[0], expr, commute)

	case "m_pm":
		p := args[0]
		if token.IsOp(expr.Tok, "-u") {
			p = token.Apply("-u", p)
		}
		return MatchTree(p, expr, commute)

	case "m_not":
		_, ok, err := MatchTree(args[0], expr, commute)
		if err != nil {
			return nil, false, err
		}
		return matched(!ok)

	case "m_and":
		out := Match{}
		for _, alt := range args {
			m, ok, err := MatchTree(alt, expr, commute)
			if !ok || err != nil {
				return nil, false, err
			}
			maps.Copy(out, m)
		}
		return out, true, nil

	case "m_uses":
		vars := FindVars(expr, nil, nil)
		for _, arg := range args {
			n, isName := arg.Tok.(token.Name)
			if !isName {
				return nil, false, &PatternError{Pattern: token.Render(pattern), Msg: "m_uses takes names"}
			}
			if !slices.Contains(vars, n.Lower()) {
				return nil, false, nil
			}
		}
		return Match{}, true, nil

	case "m_commute":
		return MatchTree(args[0], expr, true)

	default: // m_type
		var want string
		switch t := args[0].Tok.(type) {
		case token.Name:
			want = t.Lower()
		case token.String:
			want = t.Value
		default:
			return nil, false, &PatternError{Pattern: token.Render(pattern), Msg: "m_type takes a type name"}
		}
		return matched(string(expr.Tok.Kind()) == want)
	}
}

// matchArgs matches children pairwise and merges their captures.
func matchArgs(pattern, expr *token.Tree, commute bool) (Match, bool, error) {
	if len(pattern.Args) != len(expr.Args) {
		return nil, false, nil
	}
	out := Match{}
	for i, p := range pattern.Args {
		m, ok, err := MatchTree(p, expr.Args[i], commute)
		if !ok || err != nil {
			return nil, false, err
		}
		maps.Copy(out, m)
	}
	return out, true, nil
}

// term is one operand of a flattened sum or product, with the capture
// names attached to it on the way down.
type term struct {
	tree  *token.Tree
	names []string
}

// commutingTerms flattens nested applications of op into a list of terms.
// Under +, a-b is read as a+(-b). Wildcards and end terms are moved to the
// back so that specific terms get the first chance to match.
func commutingTerms(t *token.Tree, op string, names []string) []term {
	if op == "+" && token.IsOp(t.Tok, "-") && len(t.Args) == 2 {
		t = token.Apply("+", t.Args[0], token.Apply("-u", t.Args[1]))
	}
	if !token.IsOp(t.Tok, op) {
		return []term{{tree: t, names: slices.Clone(names)}}
	}

	var terms, rest []term
	for _, arg := range t.Args {
		argNames := slices.Clone(names)
		for token.IsOp(arg.Tok, captureOp) && len(arg.Args) == 2 {
			if n, ok := arg.Args[1].Tok.(token.Name); ok {
				argNames = append(argNames, n.Lower())
			}
			arg = arg.Args[0]
		}
		switch {
		case token.IsOp(arg.Tok, op) || op == "+" && token.IsOp(arg.Tok, "-"):
			terms = append(terms, commutingTerms(arg, op, argNames)...)
		case token.IsName(arg.Tok, wildcard) || isEndTerm(arg):
			rest = append(rest, term{tree: arg, names: argNames})
		default:
			terms = append(terms, term{tree: arg, names: argNames})
		}
	}
	return append(terms, rest...)
}

// isEndTerm reports whether a pattern term may go unmatched in a
// commutative match.
func isEndTerm(t *token.Tree) bool {
	for len(t.Args) > 0 && (isMetaWrapper(t.Tok) || token.IsOp(t.Tok, captureOp)) {
		t = t.Args[0]
	}
	if f, ok := t.Tok.(token.Function); ok && f.Lower() == "m_any" {
		return slices.ContainsFunc(t.Args, isEndTerm)
	}
	n, ok := t.Tok.(token.Name)
	return ok && endTermNames[n.Lower()]
}

func isMetaWrapper(tok token.Token) bool {
	f, ok := tok.(token.Function)
	if !ok {
		return false
	}
	switch f.Lower() {
	case "m_all", "m_pm", "m_not", "m_commute":
		return true
	default:
		return false
	}
}

func matchCommutative(pattern, expr *token.Tree, op string) (Match, bool, error) {
	patternTerms := commutingTerms(pattern, op, nil)
	exprTerms := commutingTerms(expr, op, nil)

	used := make([]bool, len(patternTerms))
	captured := make(map[string][]*token.Tree)
	var order []string
	capture := func(name string, t *token.Tree) {
		if _, ok := captured[name]; !ok {
			order = append(order, name)
		}
		captured[name] = append(captured[name], t)
	}

	for _, et := range exprTerms {
		found := false
		for j, pt := range patternTerms {
			if used[j] && !token.IsFunction(pt.tree.Tok, "m_all") {
				continue
			}
			m, ok, err := MatchTree(pt.tree, et.tree, true)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			found = true
			used[j] = true
			for _, name := range slices.Sorted(maps.Keys(m)) {
				capture(name, m[name])
			}
			for _, name := range pt.names {
				capture(name, et.tree)
			}
			break
		}
		if !found {
			return nil, false, nil
		}
	}

	for j, pt := range patternTerms {
		if !used[j] && !isEndTerm(pt.tree) {
			return nil, false, nil
		}
	}

	out := make(Match, len(order))
	for _, name := range order {
		terms := captured[name]
		sub := terms[0]
		for _, t := range terms[1:] {
			sub = token.Apply(op, sub, t)
		}
		out[name] = sub
	}
	return out, true, nil
}
