package token

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind is the JME type name of a token.
// These are the names accepted by `isa` and by function signatures.
type Kind string

// Token kinds.
const (
	KindNumber   Kind = "number"
	KindString   Kind = "string"
	KindBool     Kind = "boolean"
	KindList     Kind = "list"
	KindSet      Kind = "set"
	KindVector   Kind = "vector"
	KindMatrix   Kind = "matrix"
	KindRange    Kind = "range"
	KindName     Kind = "name"
	KindFunction Kind = "function"
	KindOp       Kind = "op"
	KindPunc     Kind = "punc"
)

// Token is a classified lexical unit. It is also the value carried by
// every tree node and the result of evaluation.
//
// Token is a closed set: the only implementations are the types in this
// package. Consumers switch over the concrete types and must handle the
// default case explicitly.
type Token interface {
	// Kind returns the JME type name.
	Kind() Kind
	token()
}

// Number is a numeric literal or value.
type Number struct {
	Value Num
}

// String is a string literal. Latex marks strings that should be
// rendered as raw LaTeX.
type String struct {
	Value string
	Latex bool
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// List is an ordered collection of tokens.
//
// While parsing, a list literal is emitted with Pending set and only its
// Arity known; the elements are the children of the tree node. Evaluation
// produces a List with Items filled in.
type List struct {
	Items   []Token
	Arity   int
	Pending bool
}

// Set is an unordered collection of distinct tokens.
type Set struct {
	Items []Token
}

// Vector is a column of real numbers.
type Vector struct {
	Values []float64
}

// Matrix is a rows x cols grid of real numbers.
type Matrix struct {
	Rows   int
	Cols   int
	Values [][]float64
}

// Range is `start..end#step`. Members holds the discrete values when Step
// is non-zero; a zero step denotes the continuous interval.
type Range struct {
	Start   float64
	End     float64
	Step    float64
	Members []float64
}

// Name is an identifier. Unbound is set by the evaluator on names that had
// no value in scope.
type Name struct {
	Name        string
	Annotations []string
	Unbound     bool
}

// Function is a function application marker.
type Function struct {
	Name        string
	Annotations []string
	Arity       int
}

// Op is an operator application marker.
type Op struct {
	Name    string
	Arity   int
	Prefix  bool
	Postfix bool
}

// Punc is a punctuation token: one of `(`, `)`, `,`, `[`, `]`.
// It only appears in tokenizer output.
type Punc struct {
	Value string
}

func (Number) Kind() Kind   { return KindNumber }
func (String) Kind() Kind   { return KindString }
func (Bool) Kind() Kind     { return KindBool }
func (List) Kind() Kind     { return KindList }
func (Set) Kind() Kind      { return KindSet }
func (Vector) Kind() Kind   { return KindVector }
func (Matrix) Kind() Kind   { return KindMatrix }
func (Range) Kind() Kind    { return KindRange }
func (Name) Kind() Kind     { return KindName }
func (Function) Kind() Kind { return KindFunction }
func (Op) Kind() Kind       { return KindOp }
func (Punc) Kind() Kind     { return KindPunc }

func (Number) token()   {}
func (String) token()   {}
func (Bool) token()     {}
func (List) token()     {}
func (Set) token()      {}
func (Vector) token()   {}
func (Matrix) token()   {}
func (Range) token()    {}
func (Name) token()     {}
func (Function) token() {}
func (Op) token()       {}
func (Punc) token()     {}

// NewReal returns a real Number.
func NewReal(f float64) Number {
	return Number{Value: Real(f)}
}

// NewComplexNumber returns a Number, collapsing a zero imaginary part.
func NewComplexNumber(c complex128) Number {
	return Number{Value: NewComplex(c)}
}

// NewOp builds an operator token with the arity from the operator table.
func NewOp(name string, prefix, postfix bool) Op {
	return Op{Name: name, Arity: Arity(name), Prefix: prefix, Postfix: postfix}
}

// NewList returns a materialized list.
func NewList(items ...Token) List {
	if items == nil {
		items = []Token{}
	}
	return List{Items: items, Arity: len(items)}
}

// MaxRangeMembers bounds the members a discrete range materializes.
const MaxRangeMembers = 1_000_000

// Range construction errors.
var (
	// ErrRangeTooLarge indicates a discrete range with more than
	// MaxRangeMembers members.
	ErrRangeTooLarge = errors.New("range has too many members")
	// ErrRangeUnbounded indicates a discrete range whose member count is
	// not a finite number, such as 0..infinity#1.
	ErrRangeUnbounded = errors.New("range has no finite member count")
)

// NewRange builds a range and materializes its members when step is
// non-zero.
func NewRange(start, end, step float64) (Range, error) {
	r := Range{Start: start, End: end, Step: step}
	if step == 0 {
		return r, nil
	}
	count := math.Trunc((end-start)/step + 1e-9)
	if math.IsNaN(count) || math.IsInf(count, 0) {
		return Range{}, fmt.Errorf("%w: %g..%g#%g", ErrRangeUnbounded, start, end, step)
	}
	if count < 0 {
		return r, nil
	}
	if count >= MaxRangeMembers {
		return Range{}, fmt.Errorf("%w: %g..%g#%g has more than %d", ErrRangeTooLarge, start, end, step, MaxRangeMembers)
	}
	n := int(count)
	r.Members = make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		r.Members = append(r.Members, start+float64(i)*step)
	}
	return r, nil
}

// Size returns the number of discrete members, or -1 for a continuous range.
func (r Range) Size() int {
	if r.Step == 0 {
		return -1
	}
	return len(r.Members)
}

// NewMatrix builds a matrix from rows, padding short rows with zeroes.
func NewMatrix(rows [][]float64) Matrix {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	values := make([][]float64, len(rows))
	for i, row := range rows {
		values[i] = make([]float64, cols)
		copy(values[i], row)
	}
	return Matrix{Rows: len(rows), Cols: cols, Values: values}
}

// Lower returns the normalized lookup key for a name.
func (n Name) Lower() string {
	return strings.ToLower(n.Name)
}

// Lower returns the normalized lookup key for a function name.
func (f Function) Lower() string {
	return strings.ToLower(f.Name)
}

// IsOp reports whether tok is the operator name.
func IsOp(tok Token, name string) bool {
	op, ok := tok.(Op)
	return ok && op.Name == name
}

// IsName reports whether tok is the name (exact match).
func IsName(tok Token, name string) bool {
	n, ok := tok.(Name)
	return ok && n.Name == name
}

// IsFunction reports whether tok is a call of the named function.
func IsFunction(tok Token, name string) bool {
	f, ok := tok.(Function)
	return ok && f.Name == name
}

// CallName returns the name of an operator or function token.
func CallName(tok Token) (string, bool) {
	switch t := tok.(type) {
	case Op:
		return t.Name, true
	case Function:
		return t.Name, true
	default:
		return "", false
	}
}
