package token

// Operator tables shared by the tokenizer, the parser, the matcher and
// renderers. A lower precedence number binds more tightly.
var precedence = map[string]float64{
	";":       0,
	"fact":    1,
	"not":     1,
	"+u":      2.5,
	"-u":      2.5,
	"^":       2,
	"*":       3,
	"/":       3,
	"+":       4,
	"-":       4,
	"|":       5,
	"..":      5,
	"#":       6,
	"except":  6.5,
	"in":      6.5,
	"<":       7,
	">":       7,
	"<=":      7,
	">=":      7,
	"<>":      8,
	"=":       8,
	"isa":     9,
	"and":     11,
	"or":      12,
	"xor":     13,
	"implies": 14,
}

var arity = map[string]int{
	"!":    1,
	"not":  1,
	"fact": 1,
	"+u":   1,
	"-u":   1,
}

var prefixForms = map[string]string{
	"+": "+u",
	"-": "-u",
	"!": "not",
}

var postfixForms = map[string]string{
	"!": "fact",
}

var postfixNames = map[string]struct{}{
	"fact": {},
}

var rightAssociative = map[string]bool{
	"^":  true,
	"+u": true,
	"-u": true,
}

var commutative = map[string]bool{
	"*":   true,
	"+":   true,
	"and": true,
	"=":   true,
}

var synonyms = map[string]string{
	"&":       "and",
	"&&":      "and",
	"divides": "|",
	"||":      "or",
	"sqr":     "sqrt",
	"gcf":     "gcd",
	"sgn":     "sign",
	"len":     "abs",
	"length":  "abs",
	"verb":    "verbatim",
}

// Precedence returns the precedence of an operator.
func Precedence(op string) (float64, bool) {
	p, ok := precedence[op]
	return p, ok
}

// Arity returns the number of operands an operator takes.
func Arity(op string) int {
	if n, ok := arity[op]; ok {
		return n
	}
	return 2
}

// PrefixForm returns the name an operator takes in prefix position.
func PrefixForm(op string) (string, bool) {
	s, ok := prefixForms[op]
	return s, ok
}

// PostfixForm returns the name an operator takes in postfix position.
func PostfixForm(op string) (string, bool) {
	s, ok := postfixForms[op]
	return s, ok
}

// LeftAssociative reports whether equal-precedence chains of op group to
// the left.
func LeftAssociative(op string) bool {
	return !rightAssociative[op]
}

// Commutative reports whether the operands of op may be matched in any
// order.
func Commutative(op string) bool {
	return commutative[op]
}

// Synonym returns the canonical name for a synonym, or name itself.
func Synonym(name string) string {
	if s, ok := synonyms[name]; ok {
		return s
	}
	return name
}
