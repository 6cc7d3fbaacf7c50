package token

import (
	"slices"
	"strings"
)

// Tree is a token with ordered children. Leaves have no children.
//
// Trees are immutable once built. Functions that transform a tree return a
// new root and share every subtree they did not change; nothing in this
// module writes to a Tree after construction.
type Tree struct {
	Tok  Token
	Args []*Tree
}

// Leaf returns a childless tree.
func Leaf(tok Token) *Tree {
	return &Tree{Tok: tok}
}

// Node returns a tree with the given children.
func Node(tok Token, args ...*Tree) *Tree {
	return &Tree{Tok: tok, Args: args}
}

// Call returns a function application node with the arity set from args.
func Call(name string, args ...*Tree) *Tree {
	return &Tree{Tok: Function{Name: name, Arity: len(args)}, Args: args}
}

// Apply returns an operator node built from the operator table.
func Apply(op string, args ...*Tree) *Tree {
	tok := NewOp(op, false, false)
	if len(args) == 1 && tok.Arity == 1 {
		_, tok.Postfix = postfixNames[op]
		tok.Prefix = !tok.Postfix
	}
	return &Tree{Tok: tok, Args: args}
}

// IsLeaf reports whether t has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.Args) == 0
}

// WithArgs returns a copy of t whose children are args. t is unchanged.
func (t *Tree) WithArgs(args []*Tree) *Tree {
	return &Tree{Tok: t.Tok, Args: args}
}

// ReplaceArg returns a copy of t with child i replaced. The other children
// are shared.
func (t *Tree) ReplaceArg(i int, arg *Tree) *Tree {
	args := slices.Clone(t.Args)
	args[i] = arg
	return t.WithArgs(args)
}

// String renders the tree as JME text.
func (t *Tree) String() string {
	return Render(t)
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !TokenEqual(a.Tok, b.Tok) || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !Equal(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// TokenEqual compares two tokens by kind and value. Names compare
// case-insensitively; numbers compare Real and Complex uniformly.
func TokenEqual(a, b Token) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && NumEqual(x.Value, y.Value)
	case String:
		y, ok := b.(String)
		return ok && x.Value == y.Value
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case List:
		y, ok := b.(List)
		if !ok || x.Pending != y.Pending {
			return false
		}
		if x.Pending {
			return x.Arity == y.Arity
		}
		return slices.EqualFunc(x.Items, y.Items, TokenEqual)
	case Set:
		y, ok := b.(Set)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for _, item := range x.Items {
			if !slices.ContainsFunc(y.Items, func(o Token) bool { return TokenEqual(item, o) }) {
				return false
			}
		}
		return true
	case Vector:
		y, ok := b.(Vector)
		return ok && slices.Equal(x.Values, y.Values)
	case Matrix:
		y, ok := b.(Matrix)
		return ok && x.Rows == y.Rows && x.Cols == y.Cols &&
			slices.EqualFunc(x.Values, y.Values, slices.Equal[[]float64])
	case Range:
		y, ok := b.(Range)
		return ok && x.Start == y.Start && x.End == y.End && x.Step == y.Step
	case Name:
		y, ok := b.(Name)
		return ok && strings.EqualFold(x.Name, y.Name) && slices.Equal(x.Annotations, y.Annotations)
	case Function:
		y, ok := b.(Function)
		return ok && strings.EqualFold(x.Name, y.Name) && x.Arity == y.Arity
	case Op:
		y, ok := b.(Op)
		return ok && x.Name == y.Name && x.Arity == y.Arity
	case Punc:
		y, ok := b.(Punc)
		return ok && x.Value == y.Value
	default:
		return false
	}
}
