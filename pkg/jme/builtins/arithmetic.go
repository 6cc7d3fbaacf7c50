package builtins

import (
	"math"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func registerArithmetic(c catalog) {
	c.num1("+u", func(t token.Token) token.Token { return t })
	c.fn("+u", []string{tVec}, token.KindVector, same)
	c.fn("+u", []string{tMat}, token.KindMatrix, same)
	c.num1("-u", negate)
	c.fn("-u", []string{tVec}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return vecMap(vectorOf(args[0]), func(x float64) float64 { return -x }), nil
	})
	c.fn("-u", []string{tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return matMap(matrixOf(args[0]), func(x float64) float64 { return -x }), nil
	})

	c.num2("+", add)
	c.fn("+", []string{tList, tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		a, b := args[0].(token.List).Items, args[1].(token.List).Items
		return token.NewList(append(append(make([]token.Token, 0, len(a)+len(b)), a...), b...)...), nil
	})
	c.fn("+", []string{tList, tAny}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		a := args[0].(token.List).Items
		return token.NewList(append(append(make([]token.Token, 0, len(a)+1), a...), args[1])...), nil
	})
	c.fn("+", []string{tStr, tAny}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.String{Value: display(args[0]) + display(args[1])}, nil
	})
	c.fn("+", []string{tAny, tStr}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.String{Value: display(args[0]) + display(args[1])}, nil
	})
	c.fn("+", []string{tVec, tVec}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return vecZip(vectorOf(args[0]), vectorOf(args[1]), func(x, y float64) float64 { return x + y }), nil
	})
	c.fn("+", []string{tMat, tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return matZip(matrixOf(args[0]), matrixOf(args[1]), func(x, y float64) float64 { return x + y }), nil
	})

	c.num2("-", sub)
	c.fn("-", []string{tVec, tVec}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return vecZip(vectorOf(args[0]), vectorOf(args[1]), func(x, y float64) float64 { return x - y }), nil
	})
	c.fn("-", []string{tMat, tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return matZip(matrixOf(args[0]), matrixOf(args[1]), func(x, y float64) float64 { return x - y }), nil
	})

	c.num2("*", mul)
	c.fn("*", []string{tNum, tVec}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("*", args[0])
		if err != nil {
			return nil, err
		}
		return vecMap(vectorOf(args[1]), func(x float64) float64 { return k * x }), nil
	})
	c.fn("*", []string{tVec, tNum}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("*", args[1])
		if err != nil {
			return nil, err
		}
		return vecMap(vectorOf(args[0]), func(x float64) float64 { return k * x }), nil
	})
	c.fn("*", []string{tMat, tVec}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return matVec(matrixOf(args[0]), vectorOf(args[1]))
	})
	c.fn("*", []string{tNum, tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("*", args[0])
		if err != nil {
			return nil, err
		}
		return matMap(matrixOf(args[1]), func(x float64) float64 { return k * x }), nil
	})
	c.fn("*", []string{tMat, tNum}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("*", args[1])
		if err != nil {
			return nil, err
		}
		return matMap(matrixOf(args[0]), func(x float64) float64 { return k * x }), nil
	})
	c.fn("*", []string{tMat, tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return matMul(matrixOf(args[0]), matrixOf(args[1]))
	})

	c.num2("/", div)
	c.fn("/", []string{tMat, tNum}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("/", args[1])
		if err != nil {
			return nil, err
		}
		return matMap(matrixOf(args[0]), func(x float64) float64 { return x / k }), nil
	})
	c.fn("/", []string{tVec, tNum}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		k, err := realOnly("/", args[1])
		if err != nil {
			return nil, err
		}
		return vecMap(vectorOf(args[0]), func(x float64) float64 { return x / k }), nil
	})

	c.num2("^", pow)

	c.real2("<", token.KindBool, func(a, b float64) token.Token { return token.Bool{Value: a < b} })
	c.real2(">", token.KindBool, func(a, b float64) token.Token { return token.Bool{Value: a > b} })
	c.real2("<=", token.KindBool, func(a, b float64) token.Token { return token.Bool{Value: a <= b} })
	c.real2(">=", token.KindBool, func(a, b float64) token.Token { return token.Bool{Value: a >= b} })
	c.fn("<>", []string{tAny, tAny}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: !token.TokenEqual(args[0], args[1])}, nil
	})
	c.fn("=", []string{tAny, tAny}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: token.TokenEqual(args[0], args[1])}, nil
	})

	// a|b reads "a divides b".
	c.real2("|", token.KindBool, func(a, b float64) token.Token {
		return token.Bool{Value: a != 0 && math.Mod(b, a) == 0}
	})

	c.fn("..", []string{tNum, tNum}, token.KindRange, func(_ jme.Env, args []token.Token) (token.Token, error) {
		start, err := realOnly("..", args[0])
		if err != nil {
			return nil, err
		}
		end, err := realOnly("..", args[1])
		if err != nil {
			return nil, err
		}
		return newRange("..", start, end, 1)
	})
	c.fn("#", []string{tRange, tNum}, token.KindRange, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[0].(token.Range)
		step, err := realOnly("#", args[1])
		if err != nil {
			return nil, err
		}
		return newRange("#", r.Start, r.End, step)
	})
}

func newRange(fn string, start, end, step float64) (token.Token, error) {
	r, err := token.NewRange(start, end, step)
	if err != nil {
		return nil, jme.NewRuntimeError(fn, "%v", err)
	}
	return r, nil
}

func same(_ jme.Env, args []token.Token) (token.Token, error) {
	return args[0], nil
}
