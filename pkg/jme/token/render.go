package token

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Render returns canonical JME text for a tree. Brackets are inserted
// wherever the parser would otherwise build a different tree, so that
// compiling the output yields a structurally equal tree.
func Render(t *Tree) string {
	if t == nil {
		return ""
	}
	switch tok := t.Tok.(type) {
	case Op:
		return renderOp(tok, t.Args)
	case Function:
		return tok.Name + "(" + renderArgs(t.Args) + ")"
	case List:
		if tok.Pending {
			return "[" + renderArgs(t.Args) + "]"
		}
		return RenderToken(tok)
	default:
		return RenderToken(tok)
	}
}

func renderArgs(args []*Tree) string {
	return strings.Join(lo.Map(args, func(a *Tree, _ int) string { return Render(a) }), ",")
}

func renderTokens(items []Token) string {
	return strings.Join(lo.Map(items, func(tok Token, _ int) string { return RenderToken(tok) }), ",")
}

func renderFloats(values []float64) string {
	return strings.Join(lo.Map(values, func(f float64, _ int) string { return FormatReal(f) }), ",")
}

// RenderToken renders a single token value.
func RenderToken(tok Token) string {
	switch t := tok.(type) {
	case Number:
		return FormatNum(t.Value)
	case String:
		return quote(t.Value)
	case Bool:
		return strconv.FormatBool(t.Value)
	case List:
		return "[" + renderTokens(t.Items) + "]"
	case Set:
		return "set(" + renderTokens(t.Items) + ")"
	case Vector:
		return "vector(" + renderFloats(t.Values) + ")"
	case Matrix:
		rows := lo.Map(t.Values, func(row []float64, _ int) string { return "[" + renderFloats(row) + "]" })
		return "matrix(" + strings.Join(rows, ",") + ")"
	case Range:
		return FormatReal(t.Start) + ".." + FormatReal(t.End) + "#" + FormatReal(t.Step)
	case Name:
		if len(t.Annotations) > 0 {
			return strings.Join(t.Annotations, ":") + ":" + t.Name
		}
		return t.Name
	case Function:
		return t.Name
	case Op:
		return t.Name
	case Punc:
		return t.Value
	default:
		return ""
	}
}

// FormatReal formats a float the way the tokenizer reads it back.
func FormatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "infinity"
	case math.IsInf(f, -1):
		return "-infinity"
	case math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// FormatNum formats a number; complex values are written as `a+b*i`.
func FormatNum(n Num) string {
	switch v := n.(type) {
	case Real:
		return FormatReal(float64(v))
	case Complex:
		re, im := real(complex128(v)), imag(complex128(v))
		var imText string
		switch im {
		case 1:
			imText = "i"
		case -1:
			imText = "-i"
		default:
			imText = FormatReal(im) + "*i"
		}
		if re == 0 {
			return imText
		}
		if im < 0 {
			return FormatReal(re) + "-" + strings.TrimPrefix(imText, "-")
		}
		return FormatReal(re) + "+" + imText
	default:
		return "NaN"
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

var opSymbols = map[string]string{
	"+u":   "+",
	"-u":   "-",
	"fact": "!",
}

func opSymbol(name string) string {
	if s, ok := opSymbols[name]; ok {
		return s
	}
	return name
}

func isWordOp(name string) bool {
	return name != "" && unicode.IsLetter(rune(name[0]))
}

func renderOp(op Op, args []*Tree) string {
	sym := opSymbol(op.Name)
	switch {
	case len(args) == 1 && (op.Postfix || op.Name == "fact"):
		return bracketed(args[0], op.Name, sideLeft, false) + sym
	case len(args) == 1:
		if isWordOp(sym) {
			sym += " "
		}
		return sym + bracketed(args[0], op.Name, sideRight, true)
	case len(args) == 2:
		if isWordOp(sym) {
			sym = " " + sym + " "
		}
		return bracketed(args[0], op.Name, sideLeft, false) + sym + bracketed(args[1], op.Name, sideRight, false)
	default:
		return op.Name + "(" + renderArgs(args) + ")"
	}
}

type side int

const (
	sideLeft side = iota
	sideRight
)

func bracketed(child *Tree, parent string, s side, parentPrefix bool) string {
	text := Render(child)
	if needsBracket(child, parent, s, parentPrefix) {
		return "(" + text + ")"
	}
	return text
}

func needsBracket(child *Tree, parent string, s side, parentPrefix bool) bool {
	switch tok := child.Tok.(type) {
	case Number:
		switch v := tok.Value.(type) {
		case Real:
			return v < 0
		case Complex:
			return complex128(v) != 1i
		}
		return false
	case Op:
		if len(child.Args) == 1 && !tok.Postfix && tok.Name != "fact" && !parentPrefix {
			return true
		}
		cp, ok1 := Precedence(tok.Name)
		pp, ok2 := Precedence(parent)
		if !ok1 || !ok2 {
			return true
		}
		if cp != pp {
			return cp > pp
		}
		if s == sideRight {
			return LeftAssociative(parent) || parentPrefix && tok.Name != parent
		}
		return !LeftAssociative(parent)
	default:
		return false
	}
}
