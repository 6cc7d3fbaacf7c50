package builtins

import (
	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func boolOf(t token.Token) bool { return t.(token.Bool).Value }

func bool2(c catalog, name string, f func(a, b bool) bool) {
	c.fn(name, []string{tBool, tBool}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: f(boolOf(args[0]), boolOf(args[1]))}, nil
	})
}

func registerLogic(c catalog) {
	bool2(c, "and", func(a, b bool) bool { return a && b })
	bool2(c, "or", func(a, b bool) bool { return a || b })
	bool2(c, "xor", func(a, b bool) bool { return a != b })
	bool2(c, "implies", func(a, b bool) bool { return !a || b })
	c.fn("not", []string{tBool}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: !boolOf(args[0])}, nil
	})
}
