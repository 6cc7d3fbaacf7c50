package builtins

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func registerFunctions(c catalog) {
	registerNumberFunctions(c)
	registerTrig(c)
	registerRounding(c)
	registerIntegerFunctions(c)
	registerRandom(c)
}

func registerNumberFunctions(c catalog) {
	c.num1("abs", abs)
	c.fn("abs", []string{tStr}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return realNum(float64(len([]rune(args[0].(token.String).Value)))), nil
	})
	c.fn("abs", []string{tList}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return realNum(float64(len(args[0].(token.List).Items))), nil
	})
	c.fn("abs", []string{tRange}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[0].(token.Range)
		if r.Step == 0 {
			return realNum(r.End - r.Start), nil
		}
		return realNum(float64(r.Size())), nil
	})
	c.fn("abs", []string{tVec}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		v := vectorOf(args[0])
		return realNum(math.Sqrt(dot(v, v))), nil
	})

	c.num1("arg", func(t token.Token) token.Token { return realNum(cmplx.Phase(cx(t))) })
	c.num1("re", func(t token.Token) token.Token { return realNum(real(cx(t))) })
	c.num1("im", func(t token.Token) token.Token { return realNum(imag(cx(t))) })
	c.num1("conj", func(t token.Token) token.Token { return number(cmplx.Conj(cx(t))) })
	c.fn("isint", []string{tNum}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: token.IsInteger(numOf(args[0]))}, nil
	})
	c.num1("sqrt", sqrt)
	c.num1("ln", lift(math.Log, positive, cmplx.Log))
	c.num1("log", lift(math.Log10, positive, cmplx.Log10))
	c.num1("exp", lift(math.Exp, nil, cmplx.Exp))
	c.fn("fact", []string{tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		x, err := realOnly("fact", args[0])
		if err != nil {
			return nil, err
		}
		return realNum(factorial(x)), nil
	})
	c.fn("gamma", []string{tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		x, err := realOnly("gamma", args[0])
		if err != nil {
			return nil, err
		}
		return realNum(math.Gamma(x)), nil
	})
	c.num2("root", func(a, b token.Token) token.Token {
		return pow(a, div(realNum(1), b))
	})
	c.fn("award", []string{tNum, tBool}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		if args[1].(token.Bool).Value {
			return args[0], nil
		}
		return realNum(0), nil
	})
	c.check("eval", func(args []token.Token) bool { return len(args) == 1 }, jme.Any, same)
}

func positive(x float64) bool { return x > 0 }

func inUnit(x float64) bool { return x >= -1 && x <= 1 }

func registerTrig(c catalog) {
	c.num1("sin", lift(math.Sin, nil, cmplx.Sin))
	c.num1("cos", lift(math.Cos, nil, cmplx.Cos))
	c.num1("tan", lift(math.Tan, nil, cmplx.Tan))
	c.num1("cosec", lift(func(x float64) float64 { return 1 / math.Sin(x) }, nil, func(z complex128) complex128 { return 1 / cmplx.Sin(z) }))
	c.num1("sec", lift(func(x float64) float64 { return 1 / math.Cos(x) }, nil, func(z complex128) complex128 { return 1 / cmplx.Cos(z) }))
	c.num1("cot", lift(func(x float64) float64 { return 1 / math.Tan(x) }, nil, cmplx.Cot))
	c.num1("arcsin", lift(math.Asin, inUnit, cmplx.Asin))
	c.num1("arccos", lift(math.Acos, inUnit, cmplx.Acos))
	c.num1("arctan", lift(math.Atan, nil, cmplx.Atan))
	c.num1("sinh", lift(math.Sinh, nil, cmplx.Sinh))
	c.num1("cosh", lift(math.Cosh, nil, cmplx.Cosh))
	c.num1("tanh", lift(math.Tanh, nil, cmplx.Tanh))
	c.num1("cosech", lift(func(x float64) float64 { return 1 / math.Sinh(x) }, nil, func(z complex128) complex128 { return 1 / cmplx.Sinh(z) }))
	c.num1("sech", lift(func(x float64) float64 { return 1 / math.Cosh(x) }, nil, func(z complex128) complex128 { return 1 / cmplx.Cosh(z) }))
	c.num1("coth", lift(func(x float64) float64 { return 1 / math.Tanh(x) }, nil, func(z complex128) complex128 { return 1 / cmplx.Tanh(z) }))
	c.num1("arcsinh", lift(math.Asinh, nil, cmplx.Asinh))
	c.num1("arccosh", lift(math.Acosh, func(x float64) bool { return x >= 1 }, cmplx.Acosh))
	c.num1("arctanh", lift(math.Atanh, func(x float64) bool { return x > -1 && x < 1 }, cmplx.Atanh))
	c.num1("degrees", func(t token.Token) token.Token { return number(cx(t) * complex(180/math.Pi, 0)) })
	c.num1("radians", func(t token.Token) token.Token { return number(cx(t) * complex(math.Pi/180, 0)) })
}

func registerRounding(c catalog) {
	c.num1("ceil", componentwise(math.Ceil))
	c.num1("floor", componentwise(math.Floor))
	c.num1("trunc", componentwise(math.Trunc))
	c.num1("fract", componentwise(func(x float64) float64 { return x - math.Trunc(x) }))
	c.num1("round", componentwise(func(x float64) float64 { return math.Floor(x + 0.5) }))
	c.num1("sign", sign)

	places := func(name string, round func(f float64, n int) float64) {
		c.fn(name, []string{tNum, tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
			n, err := toInt(name, args[1])
			if err != nil {
				return nil, err
			}
			return roundNum(args[0], func(f float64) float64 { return round(f, n) }), nil
		})
		c.fn(name, []string{tMat, tNum}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
			n, err := toInt(name, args[1])
			if err != nil {
				return nil, err
			}
			return matMap(matrixOf(args[0]), func(f float64) float64 { return round(f, n) }), nil
		})
		c.fn(name, []string{tVec, tNum}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
			n, err := toInt(name, args[1])
			if err != nil {
				return nil, err
			}
			return vecMap(vectorOf(args[0]), func(f float64) float64 { return round(f, n) }), nil
		})
	}
	places("precround", precround)
	places("siground", siground)

	format := func(name string, f func(x float64, n int) string) {
		c.fn(name, []string{tNum, tNum}, token.KindString, func(_ jme.Env, args []token.Token) (token.Token, error) {
			x, err := realOnly(name, args[0])
			if err != nil {
				return nil, err
			}
			n, err := toInt(name, args[1])
			if err != nil {
				return nil, err
			}
			return token.String{Value: f(x, n)}, nil
		})
	}
	format("dpformat", dpformat)
	format("sigformat", sigformat)
}

func registerIntegerFunctions(c catalog) {
	c.real2("mod", token.KindNumber, func(a, b float64) token.Token { return realNum(mod(a, b)) })
	c.real2("max", token.KindNumber, func(a, b float64) token.Token { return realNum(math.Max(a, b)) })
	c.real2("min", token.KindNumber, func(a, b float64) token.Token { return realNum(math.Min(a, b)) })
	c.fn("max", []string{tList}, token.KindNumber, fold("max", math.Inf(-1), math.Max))
	c.fn("min", []string{tList}, token.KindNumber, fold("min", math.Inf(1), math.Min))

	c.real2("perm", token.KindNumber, func(n, k float64) token.Token { return realNum(permutationsCount(n, k)) })
	c.real2("comb", token.KindNumber, func(n, k float64) token.Token { return realNum(combinationsCount(n, k)) })

	c.real2("gcd", token.KindNumber, func(a, b float64) token.Token { return realNum(gcd(a, b)) })
	c.fn("gcd", []string{tList}, token.KindNumber, fold("gcd", 0, gcd))
	c.num2("gcd_without_pi_or_i", func(a, b token.Token) token.Token { return realNum(gcdWithoutPiOrI(a, b)) })
	c.real2("lcm", token.KindNumber, func(a, b float64) token.Token { return realNum(lcm(a, b)) })
	c.fn("lcm", []string{tList}, token.KindNumber, fold("lcm", 1, lcm))

	c.fn("factorise", []string{tNum}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		n, err := toInt("factorise", args[0])
		if err != nil {
			return nil, err
		}
		return token.NewList(primeFactors(n)...), nil
	})

	c.fn("sum", []string{tList}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		var total token.Token = realNum(0)
		for _, item := range args[0].(token.List).Items {
			if _, ok := item.(token.Number); !ok {
				return nil, jme.NewTypeError("sum", "%s is not a number", token.RenderToken(item))
			}
			total = add(total, item)
		}
		return total, nil
	})
	c.fn("sum", []string{tVec}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return realNum(lo.Sum(vectorOf(args[0]))), nil
	})
}

// fold reduces a list of real numbers with f, starting from zero.
func fold(name string, zero float64, f func(a, b float64) float64) body {
	return func(_ jme.Env, args []token.Token) (token.Token, error) {
		xs, err := reals(name, args[0].(token.List).Items)
		if err != nil {
			return nil, err
		}
		return realNum(lo.Reduce(xs, func(acc, x float64, _ int) float64 { return f(acc, x) }, zero)), nil
	}
}

func registerRandom(c catalog) {
	c.fn("random", []string{tRange}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[0].(token.Range)
		if r.Step == 0 {
			return realNum(r.Start + rand.Float64()*(r.End-r.Start)), nil
		}
		if len(r.Members) == 0 {
			return nil, jme.NewRuntimeError("random", "empty range")
		}
		return realNum(r.Members[rand.IntN(len(r.Members))]), nil
	})
	c.fn("random", []string{tList}, jme.Any, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return choose(args[0].(token.List).Items)
	})
	c.check("random", func([]token.Token) bool { return true }, jme.Any, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return choose(args)
	})
	c.fn("deal", []string{tNum}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		n, err := countArg("deal", args[0])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, jme.NewRuntimeError("deal", "cannot deal %d cards", n)
		}
		return token.NewList(lo.Map(rand.Perm(n), func(i int, _ int) token.Token { return realNum(float64(i)) })...), nil
	})
	c.fn("shuffle", []string{tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewList(shuffled(args[0].(token.List).Items)...), nil
	})
	c.fn("shuffle", []string{tRange}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[0].(token.Range)
		if r.Step == 0 {
			return nil, jme.NewTypeError("shuffle", "cannot shuffle a continuous range")
		}
		return token.NewList(shuffled(rangeItems(r))...), nil
	})
}

func choose(items []token.Token) (token.Token, error) {
	if len(items) == 0 {
		return nil, jme.NewRuntimeError("random", "nothing to choose from")
	}
	return items[rand.IntN(len(items))], nil
}

func shuffled(items []token.Token) []token.Token {
	out := append([]token.Token(nil), items...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
