// Package lexer turns JME source text into tokens.
package lexer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// ErrInvalidToken indicates input that matches no token form.
var ErrInvalidToken = errors.New("invalid expression")

// Error reports where tokenizing stopped.
type Error struct {
	// Expr is the full input.
	Expr string
	// Pos is the byte offset of the unrecognized input.
	Pos int
}

// Error implements the error interface.
func (e *Error) Error() string {
	rest := e.Expr[e.Pos:]
	if len(rest) > 16 {
		rest = rest[:16] + "..."
	}
	return fmt.Sprintf("%v: unexpected %q at position %d", ErrInvalidToken, rest, e.Pos)
}

// Unwrap returns ErrInvalidToken for errors.Is support.
func (e *Error) Unwrap() error {
	return ErrInvalidToken
}

var (
	reWhitespace  = regexp.MustCompile(`^(?:[ \t\n\r\f\v\x{00A0}\x{2028}\x{2029}]|&nbsp;)+`)
	reComment     = regexp.MustCompile(`^//[^\n]*(?:\n|$)`)
	reNumber      = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?`)
	reBool        = regexp.MustCompile(`^(?i:true|false)`)
	reSymbolOp    = regexp.MustCompile(`^(?:\.\.|#|<=|>=|<>|&&|\|\||[|*+\-/^<>=!&;])`)
	reWordOp      = regexp.MustCompile(`^(?i:(not|and|or|xor|implies|isa|except|in))(?:[^a-zA-Z0-9_']|$)`)
	reName        = regexp.MustCompile(`^\{?((?:[a-zA-Z]+:)*)((?:\$?[a-zA-Z_][a-zA-Z0-9_]*'*)|\?\??)\}?`)
	rePunctuation = regexp.MustCompile(`^[(),\[\]]`)
)

// constants are substituted for un-annotated names at tokenize time.
var constants = map[string]token.Num{
	"e":        token.Real(math.E),
	"pi":       token.Real(math.Pi),
	"i":        token.Complex(1i),
	"infinity": token.Real(math.Inf(1)),
	"infty":    token.Real(math.Inf(1)),
}

// Tokenize splits expr into tokens. It inserts the implicit `*` between
// juxtaposed values, resolves prefix and postfix operator forms and
// rewrites synonyms.
func Tokenize(expr string) ([]token.Token, error) {
	var tokens []token.Token
	rest := expr

	for {
		rest = skipIgnored(rest)
		if rest == "" {
			break
		}
		pos := len(expr) - len(rest)

		tok, n, ok := next(rest, tokens)
		if !ok {
			return nil, &Error{Expr: expr, Pos: pos}
		}
		if implicitMultiplication(tok, rest[:n], tokens) {
			tokens = append(tokens, token.NewOp("*", false, false))
		}
		tokens = append(tokens, tok)
		rest = rest[n:]
	}

	for i, tok := range tokens {
		switch t := tok.(type) {
		case token.Name:
			t.Name = token.Synonym(t.Name)
			tokens[i] = t
		case token.Op:
			if s := token.Synonym(t.Name); s != t.Name {
				tokens[i] = token.NewOp(s, t.Prefix, t.Postfix)
			}
		}
	}
	return tokens, nil
}

func skipIgnored(s string) string {
	for {
		if m := reWhitespace.FindString(s); m != "" {
			s = s[len(m):]
			continue
		}
		if m := reComment.FindString(s); m != "" {
			s = s[len(m):]
			continue
		}
		return s
	}
}

// next reads one token from the front of s. It returns the token and the
// number of bytes consumed.
func next(s string, prev []token.Token) (token.Token, int, bool) {
	if m := reNumber.FindString(s); m != "" {
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, 0, false
		}
		return token.NewReal(f), len(m), true
	}

	if m := reBool.FindString(s); m != "" && !wordChar(s, len(m)) {
		return token.Bool{Value: strings.EqualFold(m, "true")}, len(m), true
	}

	if m := reSymbolOp.FindString(s); m != "" {
		return operator(m, prev), len(m), true
	}
	if m := reWordOp.FindStringSubmatch(s); m != nil {
		return operator(strings.ToLower(m[1]), prev), len(m[1]), true
	}

	if m := reName.FindStringSubmatch(s); m != nil {
		name := m[2]
		var annotations []string
		if m[1] != "" {
			annotations = strings.Split(strings.TrimSuffix(m[1], ":"), ":")
		}
		if annotations == nil {
			if c, ok := constants[strings.ToLower(name)]; ok {
				return token.Number{Value: c}, len(m[0]), true
			}
		}
		return token.Name{Name: name, Annotations: annotations}, len(m[0]), true
	}

	if m := rePunctuation.FindString(s); m != "" {
		return token.Punc{Value: m}, len(m), true
	}

	if s[0] == '\'' || s[0] == '"' {
		return scanString(s)
	}

	return nil, 0, false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func wordChar(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c == '\'' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// operator chooses between the prefix, postfix and binary form of op from
// the token before it.
func operator(op string, prev []token.Token) token.Op {
	if prefixContext(prev) {
		if form, ok := token.PrefixForm(op); ok {
			return token.NewOp(form, true, false)
		}
		return token.NewOp(op, false, false)
	}
	if form, ok := token.PostfixForm(op); ok {
		return token.NewOp(form, false, true)
	}
	return token.NewOp(op, false, false)
}

func prefixContext(prev []token.Token) bool {
	if len(prev) == 0 {
		return true
	}
	switch t := prev[len(prev)-1].(type) {
	case token.Punc:
		return t.Value == "(" || t.Value == "," || t.Value == "["
	case token.Op:
		return !t.Postfix
	default:
		return false
	}
}

// implicitMultiplication reports whether a `*` goes between prev and tok.
// text is the source of tok: constants such as pi are read as names.
func implicitMultiplication(tok token.Token, text string, prev []token.Token) bool {
	if len(prev) == 0 {
		return false
	}
	last := prev[len(prev)-1]
	closeBracket := false
	if p, ok := last.(token.Punc); ok && p.Value == ")" {
		closeBracket = true
	}
	_, lastName := last.(token.Name)
	_, lastNumber := last.(token.Number)

	switch t := tok.(type) {
	case token.Number:
		if isLetter(text[0]) {
			return closeBracket || lastName || lastNumber
		}
		return closeBracket || lastName
	case token.Name:
		return closeBracket || lastName || lastNumber
	case token.Punc:
		return t.Value == "(" && (closeBracket || lastNumber)
	}
	return false
}

func scanString(s string) (token.Token, int, bool) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == quote:
			return token.String{Value: b.String()}, i + 1, true
		case c == '\\' && i+1 < len(s):
			i++
			switch e := s[i]; e {
			case 'n':
				b.WriteByte('\n')
			case '{', '}':
				b.WriteByte('\\')
				b.WriteByte(e)
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return nil, 0, false
}
