// Package parser builds expression trees from JME tokens with the
// shunting-yard algorithm.
package parser

import (
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/lexer"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

type listMode int

const (
	listNew listMode = iota
	listIndex
)

// shunter holds the transient state of one Shunt call.
type shunter struct {
	output []*token.Tree
	stack  []token.Token

	// numvars counts commas seen in each open function call or list;
	// olength records the output length when it was opened.
	numvars  []int
	olength  []int
	listmode []listMode
}

// Compile tokenizes and parses expr. An empty or all-whitespace expression
// yields a nil tree and no error.
func Compile(expr string) (*token.Tree, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	tokens, err := lexer.Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return Shunt(tokens)
}

// MustCompile is like Compile but panics on error. It is meant for
// expressions fixed at build time.
func MustCompile(expr string) *token.Tree {
	t, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return t
}

// CompileList parses a comma-separated list of expressions. Commas inside
// brackets do not split.
func CompileList(expr string) ([]*token.Tree, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	tokens, err := lexer.Tokenize(expr)
	if err != nil {
		return nil, err
	}

	var (
		parts    [][]token.Token
		brackets []string
		start    int
	)
	for i, tok := range tokens {
		p, ok := tok.(token.Punc)
		if !ok {
			continue
		}
		switch p.Value {
		case "(", "[":
			brackets = append(brackets, p.Value)
		case ")", "]":
			want := "("
			if p.Value == "]" {
				want = "["
			}
			if len(brackets) == 0 || brackets[len(brackets)-1] != want {
				return nil, errAt(ErrMismatchedBracket, p.Value)
			}
			brackets = brackets[:len(brackets)-1]
		case ",":
			if len(brackets) == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}
	if len(brackets) > 0 {
		return nil, errAt(ErrNoRightBracket, "")
	}
	parts = append(parts, tokens[start:])

	trees := make([]*token.Tree, 0, len(parts))
	for _, part := range parts {
		t, err := Shunt(part)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// Shunt builds a tree from tokens. Operators are ordered by the precedence
// table in package token; equal precedence groups to the left except for
// the right-associative `^`, `+u` and `-u`. A name followed by `(` is a
// function call whose arity is the number of comma-separated arguments.
func Shunt(tokens []token.Token) (*token.Tree, error) {
	s := &shunter{}
	for i, tok := range tokens {
		if err := s.step(tokens, i, tok); err != nil {
			return nil, err
		}
	}

	for len(s.stack) > 0 {
		top := s.pop()
		if p, ok := top.(token.Punc); ok {
			if p.Value == "(" {
				return nil, errAt(ErrNoRightBracket, "")
			}
			return nil, errAt(ErrNoRightSquareBracket, "")
		}
		if err := s.emit(top); err != nil {
			return nil, err
		}
	}
	if len(s.listmode) > 0 {
		return nil, errAt(ErrNoRightSquareBracket, "")
	}
	if len(s.output) > 1 {
		return nil, errAt(ErrMissingOperator, token.Render(s.output[len(s.output)-1]))
	}
	if len(s.output) == 0 {
		return nil, nil
	}
	return s.output[0], nil
}

func (s *shunter) step(tokens []token.Token, i int, tok token.Token) error {
	switch t := tok.(type) {
	case token.Name:
		if i+1 < len(tokens) && isPunc(tokens[i+1], "(") {
			s.stack = append(s.stack, token.Function{Name: t.Name, Annotations: t.Annotations})
			s.open()
			return nil
		}
		return s.emit(t)

	case token.Op:
		if !t.Prefix {
			o1, _ := token.Precedence(t.Name)
			for len(s.stack) > 0 {
				top, ok := s.stack[len(s.stack)-1].(token.Op)
				if !ok {
					break
				}
				o2, _ := token.Precedence(top.Name)
				if !(o1 > o2 || token.LeftAssociative(t.Name) && o1 == o2) {
					break
				}
				if err := s.emit(s.pop()); err != nil {
					return err
				}
			}
		}
		s.stack = append(s.stack, t)
		return nil

	case token.Punc:
		return s.punctuation(tokens, i, t)

	default:
		return s.emit(tok)
	}
}

func (s *shunter) punctuation(tokens []token.Token, i int, p token.Punc) error {
	switch p.Value {
	case ",":
		if err := s.popUntilBracket(); err != nil {
			return err
		}
		// Plain brackets have no counter; a comma there is tolerated.
		if n := len(s.numvars); n > 0 {
			s.numvars[n-1]++
		}
		if len(s.stack) == 0 {
			return errAt(ErrNoLeftBracketInFunction, ",")
		}

	case "[":
		mode := listIndex
		if i == 0 || opensList(tokens[i-1]) {
			mode = listNew
		}
		s.listmode = append(s.listmode, mode)
		s.stack = append(s.stack, p)
		s.open()

	case "]":
		if err := s.popUntilBracket(); err != nil {
			return err
		}
		if len(s.stack) == 0 || !isPunc(s.stack[len(s.stack)-1], "[") {
			return errAt(ErrNoLeftSquareBracket, "]")
		}
		s.pop()
		n := s.close()
		mode := s.listmode[len(s.listmode)-1]
		s.listmode = s.listmode[:len(s.listmode)-1]
		if mode == listNew {
			return s.emitCall(token.List{Arity: n, Pending: true}, n)
		}
		return s.emitCall(token.Function{Name: "listval", Arity: 2}, 2)

	case "(":
		s.stack = append(s.stack, p)

	case ")":
		if err := s.popUntilBracket(); err != nil {
			return err
		}
		if len(s.stack) == 0 || !isPunc(s.stack[len(s.stack)-1], "(") {
			return errAt(ErrNoLeftBracket, ")")
		}
		s.pop()
		if len(s.stack) > 0 {
			if f, ok := s.stack[len(s.stack)-1].(token.Function); ok {
				s.pop()
				n := s.close()
				f.Arity = n
				return s.emitCall(f, n)
			}
		}
	}
	return nil
}

// open starts counting arguments for a call or list.
func (s *shunter) open() {
	s.numvars = append(s.numvars, 0)
	s.olength = append(s.olength, len(s.output))
}

// close returns the argument count of the innermost call or list.
func (s *shunter) close() int {
	n := s.numvars[len(s.numvars)-1]
	l := s.olength[len(s.olength)-1]
	s.numvars = s.numvars[:len(s.numvars)-1]
	s.olength = s.olength[:len(s.olength)-1]
	if len(s.output) > l {
		n++
	}
	return n
}

// popUntilBracket moves operators to the output until a bracket is on top of the
// stack or the stack is empty. The caller checks which bracket it found.
func (s *shunter) popUntilBracket() error {
	for len(s.stack) > 0 {
		if _, ok := s.stack[len(s.stack)-1].(token.Punc); ok {
			return nil
		}
		if err := s.emit(s.pop()); err != nil {
			return err
		}
	}
	return nil
}

func (s *shunter) pop() token.Token {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// emit appends tok to the output, taking operands for operators.
func (s *shunter) emit(tok token.Token) error {
	if op, ok := tok.(token.Op); ok {
		return s.emitCall(op, op.Arity)
	}
	s.output = append(s.output, token.Leaf(tok))
	return nil
}

func (s *shunter) emitCall(tok token.Token, n int) error {
	if len(s.output) < n {
		name, ok := token.CallName(tok)
		if !ok {
			name = string(tok.Kind())
		}
		return errAt(ErrArityMismatch, name)
	}
	split := len(s.output) - n
	args := make([]*token.Tree, n)
	copy(args, s.output[split:])
	s.output = append(s.output[:split], token.Node(tok, args...))
	return nil
}

func isPunc(tok token.Token, v string) bool {
	p, ok := tok.(token.Punc)
	return ok && p.Value == v
}

func opensList(prev token.Token) bool {
	switch t := prev.(type) {
	case token.Punc:
		return t.Value == "(" || t.Value == "[" || t.Value == ","
	case token.Op:
		return true
	default:
		return false
	}
}
