package token

import (
	"math"
	"math/cmplx"
)

// Num is a numeric value: Real or Complex.
type Num interface {
	// Complex128 returns the value widened to complex128.
	Complex128() complex128
	num()
}

// Real is a real number.
type Real float64

// Complex is a number with a non-zero imaginary part.
type Complex complex128

func (r Real) Complex128() complex128    { return complex(float64(r), 0) }
func (c Complex) Complex128() complex128 { return complex128(c) }

func (Real) num()    {}
func (Complex) num() {}

// NewComplex returns Real when the imaginary part is zero and Complex
// otherwise. Every numeric result goes through here so that a value has
// exactly one representation.
func NewComplex(c complex128) Num {
	if imag(c) == 0 {
		return Real(real(c))
	}
	return Complex(c)
}

// IsComplex reports whether n carries an imaginary part.
func IsComplex(n Num) bool {
	_, ok := n.(Complex)
	return ok
}

// NumEqual compares two numbers, treating Real and Complex uniformly.
func NumEqual(a, b Num) bool {
	return a.Complex128() == b.Complex128()
}

// RealPart returns the real component of n.
func RealPart(n Num) float64 {
	switch v := n.(type) {
	case Real:
		return float64(v)
	case Complex:
		return real(complex128(v))
	default:
		return math.NaN()
	}
}

// IsInteger reports whether n is a real whole number.
func IsInteger(n Num) bool {
	r, ok := n.(Real)
	return ok && !math.IsInf(float64(r), 0) && float64(r) == math.Trunc(float64(r))
}

// IsNaN reports whether either component of n is NaN.
func IsNaN(n Num) bool {
	return cmplx.IsNaN(n.Complex128())
}
