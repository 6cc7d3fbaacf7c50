// Package builtins is the standard JME library: arithmetic on numbers,
// vectors and matrices, comparison and logic, strings, lists, sets and
// ranges, combinatorics, the lazy control operators (if, switch, map,
// filter, let, satisfy, isa, isset, repeat) and the builtin simplification
// rulesets.
//
// Register installs everything into a jme.Registry. Overloads are
// registered in a fixed order, which is the order the evaluator tries
// them in.
package builtins
