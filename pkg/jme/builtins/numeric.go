package builtins

import (
	"math"
	"math/cmplx"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Numeric kernel. Numbers are complex aware: every operation works on
// complex128 and results go through token.NewComplex, so a result with no
// imaginary part is always Real.

func numOf(t token.Token) token.Num {
	return t.(token.Number).Value
}

func cx(t token.Token) complex128 {
	return numOf(t).Complex128()
}

func re(t token.Token) float64 {
	return token.RealPart(numOf(t))
}

func number(c complex128) token.Number {
	return token.NewComplexNumber(c)
}

func realNum(f float64) token.Number {
	return token.NewReal(f)
}

func isComplex(t token.Token) bool {
	return token.IsComplex(numOf(t))
}

// realOnly returns the real value of t, or a TypeError when t has an
// imaginary part.
func realOnly(fn string, t token.Token) (float64, error) {
	if isComplex(t) {
		return 0, jme.NewTypeError(fn, "%s is not a real number", token.RenderToken(t))
	}
	return re(t), nil
}

func toInt(fn string, t token.Token) (int, error) {
	f, err := realOnly(fn, t)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, jme.NewTypeError(fn, "%s is not an integer", token.RenderToken(t))
	}
	return int(f), nil
}

// maxItems bounds the lists and matrices built from a count argument, as
// token.MaxRangeMembers bounds a range.
const maxItems = token.MaxRangeMembers

// countArg reads a count argument of fn that sizes an allocation.
func countArg(fn string, t token.Token) (int, error) {
	f := re(t)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, jme.NewRuntimeError(fn, "count %s is not finite", token.RenderToken(t))
	}
	if f > maxItems {
		return 0, jme.NewRuntimeError(fn, "count %s makes more than %d items", token.RenderToken(t), maxItems)
	}
	return toInt(fn, t)
}

// lift applies fr to real arguments inside its domain and fc otherwise.
func lift(fr func(float64) float64, inDomain func(float64) bool, fc func(complex128) complex128) func(token.Token) token.Token {
	return func(t token.Token) token.Token {
		if !isComplex(t) && (inDomain == nil || inDomain(re(t))) {
			return realNum(fr(re(t)))
		}
		return number(fc(cx(t)))
	}
}

// componentwise applies f to the real and imaginary parts separately.
func componentwise(f func(float64) float64) func(token.Token) token.Token {
	return func(t token.Token) token.Token {
		c := cx(t)
		return number(complex(f(real(c)), f(imag(c))))
	}
}

func add(a, b token.Token) token.Token { return number(cx(a) + cx(b)) }
func sub(a, b token.Token) token.Token { return number(cx(a) - cx(b)) }
func mul(a, b token.Token) token.Token { return number(cx(a) * cx(b)) }

func div(a, b token.Token) token.Token {
	if !isComplex(a) && !isComplex(b) {
		return realNum(re(a) / re(b))
	}
	return number(cx(a) / cx(b))
}

func pow(a, b token.Token) token.Token {
	if !isComplex(a) && !isComplex(b) {
		x, y := re(a), re(b)
		if x >= 0 || y == math.Trunc(y) {
			return realNum(math.Pow(x, y))
		}
	}
	return number(cmplx.Pow(cx(a), cx(b)))
}

func negate(t token.Token) token.Token { return number(-cx(t)) }

func sqrt(t token.Token) token.Token {
	if !isComplex(t) && re(t) >= 0 {
		return realNum(math.Sqrt(re(t)))
	}
	return number(cmplx.Sqrt(cx(t)))
}

func abs(t token.Token) token.Token {
	return realNum(cmplx.Abs(cx(t)))
}

// mod is the non-negative remainder for a positive modulus.
func mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func factorial(x float64) float64 {
	if x == math.Trunc(x) && x >= 0 {
		out := 1.0
		for i := 2.0; i <= x; i++ {
			out *= i
		}
		return out
	}
	return math.Gamma(x + 1)
}

func gcd(a, b float64) float64 {
	a, b = math.Abs(math.Round(a)), math.Abs(math.Round(b))
	for b != 0 {
		a, b = b, math.Mod(a, b)
	}
	return a
}

func lcm(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return math.Abs(a*b) / gcd(a, b)
}

// piDegree counts how many factors of pi divide n, up to a small limit.
func piDegree(n float64) int {
	n = math.Abs(n)
	if n == 0 {
		return 0
	}
	for k := 1; k <= 8; k++ {
		q := n / math.Pow(math.Pi, float64(k))
		if math.Abs(q-math.Round(q)) < 1e-9 && math.Round(q) != 0 {
			continue
		}
		return k - 1
	}
	return 8
}

// gcdWithoutPiOrI is the gcd of two numbers after taking the imaginary
// part of purely imaginary values and dividing out common factors of pi.
func gcdWithoutPiOrI(a, b token.Token) float64 {
	strip := func(t token.Token) float64 {
		c := cx(t)
		if real(c) == 0 && imag(c) != 0 {
			return imag(c)
		}
		return real(c)
	}
	x, y := strip(a), strip(b)
	k := min(piDegree(x), piDegree(y))
	p := math.Pow(math.Pi, float64(k))
	return gcd(x/p, y/p)
}

func sign(t token.Token) token.Token {
	c := cx(t)
	s := func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return 0
		}
	}
	return number(complex(s(real(c)), s(imag(c))))
}

func precround(f float64, places int) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	r, _ := decimal.NewFromFloat(f).Round(int32(places)).Float64()
	return r
}

// sigPlaces returns the decimal places that keep s significant figures of f.
func sigPlaces(f float64, s int) int32 {
	if f == 0 {
		return int32(s - 1)
	}
	return int32(s - 1 - int(math.Floor(math.Log10(math.Abs(f)))))
}

func siground(f float64, s int) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	r, _ := decimal.NewFromFloat(f).Round(sigPlaces(f, s)).Float64()
	return r
}

func dpformat(f float64, places int) string {
	return decimal.NewFromFloat(f).StringFixed(int32(places))
}

func sigformat(f float64, s int) string {
	places := sigPlaces(f, s)
	return decimal.NewFromFloat(f).Round(places).StringFixed(max(places, 0))
}

// roundNum rounds both parts of a number with f.
func roundNum(t token.Token, f func(float64) float64) token.Token {
	c := cx(t)
	return number(complex(f(real(c)), f(imag(c))))
}

// primeFactors returns the exponents of 2, 3, 5, ... in the factorisation
// of n, up to its largest prime factor.
func primeFactors(n int) []token.Token {
	var exps []token.Token
	for p := 2; n > 1; p++ {
		if !isPrime(p) {
			continue
		}
		e := 0
		for n%p == 0 {
			n /= p
			e++
		}
		exps = append(exps, realNum(float64(e)))
	}
	return exps
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func permutationsCount(n, k float64) float64 {
	return factorial(n) / factorial(n-k)
}

func combinationsCount(n, k float64) float64 {
	return factorial(n) / (factorial(k) * factorial(n-k))
}
