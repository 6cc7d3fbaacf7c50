package builtins

import (
	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Kind shorthands for signatures.
const (
	tNum    = string(token.KindNumber)
	tStr    = string(token.KindString)
	tBool   = string(token.KindBool)
	tList   = string(token.KindList)
	tSet    = string(token.KindSet)
	tVec    = string(token.KindVector)
	tMat    = string(token.KindMatrix)
	tRange  = string(token.KindRange)
	tAny    = string(jme.Any)
	anyRest = "*" + tAny
)

type body = func(env jme.Env, args []token.Token) (token.Token, error)

// catalog registers definitions into a registry, in order.
type catalog struct {
	reg *jme.Registry
}

// fn registers an eager overload with a signature.
func (c catalog) fn(name string, params []string, out token.Kind, f body) {
	c.reg.Register(jme.FunctionDef{
		Name:   name,
		Params: jme.Params(params...),
		Out:    out,
		Fn:     f,
	})
}

// check registers an eager overload with a custom type check.
func (c catalog) check(name string, accepts func([]token.Token) bool, out token.Kind, f body) {
	c.reg.Register(jme.FunctionDef{
		Name:      name,
		Typecheck: accepts,
		Out:       out,
		Fn:        f,
	})
}

// num1 registers a one-number function.
func (c catalog) num1(name string, f func(token.Token) token.Token) {
	c.fn(name, []string{tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return f(args[0]), nil
	})
}

// num2 registers a two-number function.
func (c catalog) num2(name string, f func(a, b token.Token) token.Token) {
	c.fn(name, []string{tNum, tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return f(args[0], args[1]), nil
	})
}

// real2 registers a two-number function that rejects complex arguments.
func (c catalog) real2(name string, out token.Kind, f func(a, b float64) token.Token) {
	c.fn(name, []string{tNum, tNum}, out, func(_ jme.Env, args []token.Token) (token.Token, error) {
		a, err := realOnly(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := realOnly(name, args[1])
		if err != nil {
			return nil, err
		}
		return f(a, b), nil
	})
}

// Register installs the standard library into reg: every function and
// operator, the lazy control operators, and the builtin rulesets.
func Register(reg *jme.Registry) error {
	c := catalog{reg: reg}
	registerArithmetic(c)
	registerFunctions(c)
	registerLogic(c)
	registerStrings(c)
	registerCollections(c)
	registerLinearAlgebra(c)
	registerLazy(c)
	return registerRulesets(reg)
}

// NewScope returns a root scope with the standard library installed in a
// fresh registry.
func NewScope() (*jme.Scope, error) {
	reg := jme.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg.Scope(), nil
}
