package lexer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme/lexer"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func num(f float64) token.Token { return token.NewReal(f) }
func name(s string) token.Token { return token.Name{Name: s} }
func op(s string) token.Token   { return token.NewOp(s, false, false) }
func punc(s string) token.Token { return token.Punc{Value: s} }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []token.Token
	}{
		{
			name: "binary addition",
			expr: "1+2",
			want: []token.Token{num(1), op("+"), num(2)},
		},
		{
			name: "decimal number",
			expr: "3.25",
			want: []token.Token{num(3.25)},
		},
		{
			name: "number then name inserts times",
			expr: "2x",
			want: []token.Token{num(2), op("*"), name("x")},
		},
		{
			name: "adjacent names insert times",
			expr: "x y",
			want: []token.Token{name("x"), op("*"), name("y")},
		},
		{
			name: "adjacent brackets insert times",
			expr: "(a)(b)",
			want: []token.Token{punc("("), name("a"), punc(")"), op("*"), punc("("), name("b"), punc(")")},
		},
		{
			name: "number then bracket inserts times",
			expr: "2(x)",
			want: []token.Token{num(2), op("*"), punc("("), name("x"), punc(")")},
		},
		{
			name: "name then bracket is a call",
			expr: "f(x)",
			want: []token.Token{name("f"), punc("("), name("x"), punc(")")},
		},
		{
			name: "leading minus is prefix",
			expr: "-x",
			want: []token.Token{token.NewOp("-u", true, false), name("x")},
		},
		{
			name: "minus after operator is prefix",
			expr: "2*-3",
			want: []token.Token{num(2), op("*"), token.NewOp("-u", true, false), num(3)},
		},
		{
			name: "bang after value is factorial",
			expr: "3!",
			want: []token.Token{num(3), token.NewOp("fact", false, true)},
		},
		{
			name: "leading bang is not",
			expr: "!true",
			want: []token.Token{token.NewOp("not", true, false), token.Bool{Value: true}},
		},
		{
			name: "word operator",
			expr: "x and y",
			want: []token.Token{name("x"), op("and"), name("y")},
		},
		{
			name: "word operator prefix of a name",
			expr: "android",
			want: []token.Token{name("android")},
		},
		{
			name: "boolean prefix of a name",
			expr: "trueish",
			want: []token.Token{name("trueish")},
		},
		{
			name: "symbol synonyms",
			expr: "a && b",
			want: []token.Token{name("a"), op("and"), name("b")},
		},
		{
			name: "name synonyms",
			expr: "len(x)",
			want: []token.Token{name("abs"), punc("("), name("x"), punc(")")},
		},
		{
			name: "annotated name",
			expr: "vec:x",
			want: []token.Token{token.Name{Name: "x", Annotations: []string{"vec"}}},
		},
		{
			name: "primed name",
			expr: "f''",
			want: []token.Token{name("f''")},
		},
		{
			name: "pattern names",
			expr: "?;a + ??",
			want: []token.Token{name("?"), op(";"), name("a"), op("+"), name("??")},
		},
		{
			name: "two character operators",
			expr: "a<=b<>c",
			want: []token.Token{name("a"), op("<="), name("b"), op("<>"), name("c")},
		},
		{
			name: "range operators",
			expr: "1..5#2",
			want: []token.Token{num(1), op(".."), num(5), op("#"), num(2)},
		},
		{
			name: "comments are skipped",
			expr: "1 // one\n+ 2",
			want: []token.Token{num(1), op("+"), num(2)},
		},
		{
			name: "list literal",
			expr: "[1,2]",
			want: []token.Token{punc("["), num(1), punc(","), num(2), punc("]")},
		},
		{
			name: "empty input",
			expr: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lexer.Tokenize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Constants(t *testing.T) {
	got, err := lexer.Tokenize("pi")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, token.Number{Value: token.Real(math.Pi)}, got[0])

	got, err = lexer.Tokenize("i")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{token.Number{Value: token.Complex(1i)}}, got)

	got, err = lexer.Tokenize("infinity")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{num(math.Inf(1))}, got)

	// Annotated constants stay names.
	got, err = lexer.Tokenize("x:e")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{token.Name{Name: "e", Annotations: []string{"x"}}}, got)

	// A constant written as a name still multiplies a following name.
	got, err = lexer.Tokenize("pi r")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, op("*"), got[1])

	// And is multiplied by a number before it.
	got, err = lexer.Tokenize("4i")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{num(4), op("*"), token.Number{Value: token.Complex(1i)}}, got)
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: `"hello"`, want: "hello"},
		{expr: `'single'`, want: "single"},
		{expr: `"a\nb"`, want: "a\nb"},
		{expr: `"say \"hi\""`, want: `say "hi"`},
		{expr: `"\{x\}"`, want: `\{x\}`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := lexer.Tokenize(tt.expr)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, token.String{Value: tt.want}, got[0])
		})
	}
}

func TestTokenize_Invalid(t *testing.T) {
	tests := []struct {
		expr string
		pos  int
	}{
		{expr: "1 + @", pos: 4},
		{expr: "\"open", pos: 0},
		{expr: "x.5", pos: 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := lexer.Tokenize(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, lexer.ErrInvalidToken)

			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.pos, lexErr.Pos)
		})
	}
}
