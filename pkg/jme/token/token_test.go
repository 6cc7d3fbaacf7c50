package token_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

func name(n string) *token.Tree { return token.Leaf(token.Name{Name: n}) }
func num(f float64) *token.Tree { return token.Leaf(token.NewReal(f)) }

func mustRange(start, end, step float64) token.Range {
	r, err := token.NewRange(start, end, step)
	if err != nil {
		panic(err)
	}
	return r
}

func TestRender(t *testing.T) {
	a, b, c := name("a"), name("b"), name("c")

	tests := []struct {
		name string
		tree *token.Tree
		want string
	}{
		{name: "nil", tree: nil, want: ""},
		{name: "lower precedence child", tree: token.Apply("*", token.Apply("+", a, b), c), want: "(a+b)*c"},
		{name: "higher precedence child", tree: token.Apply("+", token.Apply("*", a, b), c), want: "a*b+c"},
		{name: "left associative right child", tree: token.Apply("-", a, token.Apply("-", b, c)), want: "a-(b-c)"},
		{name: "left associative left child", tree: token.Apply("-", token.Apply("-", a, b), c), want: "a-b-c"},
		{name: "right associative left child", tree: token.Apply("^", token.Apply("^", a, b), c), want: "(a^b)^c"},
		{name: "right associative right child", tree: token.Apply("^", a, token.Apply("^", b, c)), want: "a^b^c"},
		{name: "negation of sum", tree: token.Apply("-u", token.Apply("+", a, b)), want: "-(a+b)"},
		{name: "factorial", tree: token.Apply("fact", num(5)), want: "5!"},
		{name: "negative operand", tree: token.Apply("+", num(1), num(-2)), want: "1+(-2)"},
		{name: "imaginary unit", tree: token.Apply("*", num(2), token.Leaf(token.NewComplexNumber(1i))), want: "2*i"},
		{name: "explicit product", tree: token.Apply("*", num(2), name("x")), want: "2*x"},
		{name: "word operator", tree: token.Apply("isa", name("x"), token.Leaf(token.String{Value: "number"})), want: `x isa "number"`},
		{name: "prefix word operator", tree: token.Apply("not", name("p")), want: "not p"},
		{name: "function", tree: token.Call("f", a, token.Leaf(token.String{Value: "s"})), want: `f(a,"s")`},
		{name: "list literal", tree: token.Node(token.List{Arity: 2, Pending: true}, a, num(1)), want: "[a,1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.Render(tt.tree))
		})
	}
}

func TestRenderToken(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
		want string
	}{
		{name: "integer", tok: token.NewReal(3), want: "3"},
		{name: "fraction", tok: token.NewReal(0.25), want: "0.25"},
		{name: "infinity", tok: token.NewReal(math.Inf(1)), want: "infinity"},
		{name: "large", tok: token.NewReal(1e21), want: "1e+21"},
		{name: "complex", tok: token.NewComplexNumber(1 - 2i), want: "1-2*i"},
		{name: "complex unit", tok: token.NewComplexNumber(3 + 1i), want: "3+i"},
		{name: "negative unit", tok: token.NewComplexNumber(-1i), want: "-i"},
		{name: "string", tok: token.String{Value: `say "hi"`}, want: `"say \"hi\""`},
		{name: "bool", tok: token.Bool{Value: true}, want: "true"},
		{name: "list", tok: token.NewList(token.NewReal(1), token.String{Value: "a"}), want: `[1,"a"]`},
		{name: "empty list", tok: token.NewList(), want: "[]"},
		{name: "set", tok: token.Set{Items: []token.Token{token.NewReal(1)}}, want: "set(1)"},
		{name: "vector", tok: token.Vector{Values: []float64{1, 2}}, want: "vector(1,2)"},
		{name: "matrix", tok: token.NewMatrix([][]float64{{1, 2}, {3, 4}}), want: "matrix([1,2],[3,4])"},
		{name: "range", tok: mustRange(1, 5, 2), want: "1..5#2"},
		{name: "annotated name", tok: token.Name{Name: "x", Annotations: []string{"vector"}}, want: "vector:x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.RenderToken(tt.tok))
		})
	}
}

func TestNewComplex(t *testing.T) {
	assert.Equal(t, token.Real(2), token.NewComplex(2+0i))
	assert.Equal(t, token.Complex(2+1i), token.NewComplex(2+1i))
	assert.True(t, token.NumEqual(token.Real(2), token.NewComplex(2)))
	assert.True(t, token.IsInteger(token.Real(4)))
	assert.False(t, token.IsInteger(token.Real(4.5)))
	assert.False(t, token.IsInteger(token.Complex(1i)))
	assert.True(t, token.IsNaN(token.Real(math.NaN())))
	assert.Equal(t, 3.0, token.RealPart(token.Complex(3+4i)))
}

func TestNewRange(t *testing.T) {
	r := mustRange(1, 2, 0.25)
	assert.Equal(t, []float64{1, 1.25, 1.5, 1.75, 2}, r.Members)
	assert.Equal(t, 5, r.Size())

	assert.Equal(t, -1, mustRange(0, 1, 0).Size(), "step 0 is continuous")
	assert.Equal(t, -1, mustRange(0, math.Inf(1), 0).Size(), "continuous ranges may be unbounded")
	assert.Equal(t, 0, mustRange(5, 1, 1).Size())
	assert.Equal(t, []float64{5, 3, 1}, mustRange(5, 1, -2).Members)
	assert.Equal(t, token.MaxRangeMembers, mustRange(1, token.MaxRangeMembers, 1).Size())
}

func TestNewRange_Limits(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
		want             error
	}{
		{name: "too many members", start: 0, end: 1e14, step: 1, want: token.ErrRangeTooLarge},
		{name: "tiny step", start: 1, end: 10, step: 1e-7, want: token.ErrRangeTooLarge},
		{name: "one past the limit", start: 0, end: token.MaxRangeMembers, step: 1, want: token.ErrRangeTooLarge},
		{name: "infinite end", start: 0, end: math.Inf(1), step: 1, want: token.ErrRangeUnbounded},
		{name: "infinite start", start: math.Inf(-1), end: 0, step: 1, want: token.ErrRangeUnbounded},
		{name: "nan end", start: 0, end: math.NaN(), step: 1, want: token.ErrRangeUnbounded},
		{name: "nan step", start: 0, end: 1, step: math.NaN(), want: token.ErrRangeUnbounded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := token.NewRange(tt.start, tt.end, tt.step)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewMatrix_PadsRows(t *testing.T) {
	m := token.NewMatrix([][]float64{{1}, {2, 3}})
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, 2, m.Cols)
	assert.Equal(t, [][]float64{{1, 0}, {2, 3}}, m.Values)
}

func TestTokenEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b token.Token
		want bool
	}{
		{name: "real and complex forms", a: token.NewReal(1), b: token.Number{Value: token.Complex(1)}, want: true},
		{name: "names ignore case", a: token.Name{Name: "X"}, b: token.Name{Name: "x"}, want: true},
		{name: "different kinds", a: token.NewReal(1), b: token.String{Value: "1"}},
		{name: "sets ignore order", a: token.Set{Items: []token.Token{token.NewReal(1), token.NewReal(2)}}, b: token.Set{Items: []token.Token{token.NewReal(2), token.NewReal(1)}}, want: true},
		{name: "lists keep order", a: token.NewList(token.NewReal(1), token.NewReal(2)), b: token.NewList(token.NewReal(2), token.NewReal(1))},
		{name: "ranges", a: mustRange(1, 3, 1), b: mustRange(1, 3, 1), want: true},
		{name: "operators", a: token.NewOp("+", false, false), b: token.NewOp("-", false, false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.TokenEqual(tt.a, tt.b))
		})
	}
}

func TestTree_CopyOnWrite(t *testing.T) {
	orig := token.Apply("+", name("a"), name("b"))

	changed := orig.ReplaceArg(1, num(2))
	assert.Equal(t, "a+b", orig.String())
	assert.Equal(t, "a+2", changed.String())
	assert.Same(t, orig.Args[0], changed.Args[0])

	assert.True(t, token.Equal(orig, token.Apply("+", name("A"), name("b"))))
	assert.False(t, token.Equal(orig, changed))
	assert.False(t, token.Equal(orig, nil))
	assert.True(t, token.Equal(nil, nil))
	assert.True(t, num(1).IsLeaf())
}

func TestOperatorTables(t *testing.T) {
	p, ok := token.Precedence("*")
	assert.True(t, ok)
	assert.Equal(t, 3.0, p)
	_, ok = token.Precedence("@")
	assert.False(t, ok)

	assert.Equal(t, 1, token.Arity("-u"))
	assert.Equal(t, 2, token.Arity("+"))
	assert.False(t, token.LeftAssociative("^"))
	assert.True(t, token.LeftAssociative("-"))
	assert.True(t, token.Commutative("and"))
	assert.False(t, token.Commutative("-"))

	pre, ok := token.PrefixForm("!")
	assert.True(t, ok)
	assert.Equal(t, "not", pre)
	post, ok := token.PostfixForm("!")
	assert.True(t, ok)
	assert.Equal(t, "fact", post)

	assert.Equal(t, "and", token.Synonym("&&"))
	assert.Equal(t, "abs", token.Synonym("length"))
	assert.Equal(t, "sin", token.Synonym("sin"))

	op := token.Apply("fact", num(3)).Tok.(token.Op)
	assert.True(t, op.Postfix)
	assert.False(t, op.Prefix)
}
