package builtins

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// display is the text of a value when it is joined into a string: strings
// are used as they are, everything else is rendered as JME.
func display(t token.Token) string {
	if s, ok := t.(token.String); ok {
		return s.Value
	}
	return token.RenderToken(t)
}

func str(t token.Token) string { return t.(token.String).Value }

func registerStrings(c catalog) {
	c.fn("latex", []string{tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.String{Value: str(args[0]), Latex: true}, nil
	})
	c.fn("capitalise", []string{tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		s := str(args[0])
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return args[0], nil
		}
		return token.String{Value: string(unicode.ToUpper(r)) + s[size:]}, nil
	})
	c.fn("upper", []string{tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.String{Value: strings.ToUpper(str(args[0]))}, nil
	})
	c.fn("lower", []string{tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.String{Value: strings.ToLower(str(args[0]))}, nil
	})
	c.fn("pluralise", []string{tNum, tStr, tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		if token.NumEqual(numOf(args[0]), token.Real(1)) {
			return args[1], nil
		}
		return args[2], nil
	})
	c.fn("join", []string{tList, tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		parts := lo.Map(args[0].(token.List).Items, func(t token.Token, _ int) string { return display(t) })
		return token.String{Value: strings.Join(parts, str(args[1]))}, nil
	})
}
