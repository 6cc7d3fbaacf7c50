package jme

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Sentinel errors for evaluation.
var (
	// ErrUnboundVariable indicates a name with no value where one is required.
	ErrUnboundVariable = errors.New("variable not defined")

	// ErrCircularDependency indicates a variable that depends on itself.
	ErrCircularDependency = errors.New("circular variable reference")

	// ErrUndefinedFunction indicates a call of a function or operator with
	// no definition in scope.
	ErrUndefinedFunction = errors.New("function not defined")

	// ErrNoMatchingOverload indicates that no definition accepts the argument types.
	ErrNoMatchingOverload = errors.New("no definition accepts the given arguments")

	// ErrType indicates an operand of the wrong kind inside a function.
	ErrType = errors.New("type error")

	// ErrRuntime indicates a failure raised by a function body.
	ErrRuntime = errors.New("runtime error")

	// ErrEmptyExpression indicates an attempt to evaluate an empty expression.
	ErrEmptyExpression = errors.New("nothing to evaluate")

	// ErrMaxDepth indicates evaluation recursed deeper than the configured limit.
	ErrMaxDepth = errors.New("exceeded maximum evaluation depth")
)

// Sentinel errors for rewriting.
var (
	// ErrMaxIterations indicates a node kept changing past the configured limit.
	ErrMaxIterations = errors.New("exceeded maximum iterations")

	// ErrUndefinedRuleset indicates a ruleset name with no definition.
	ErrUndefinedRuleset = errors.New("ruleset not defined")

	// ErrPattern indicates a malformed rule pattern.
	ErrPattern = errors.New("invalid pattern")
)

// UnboundVariableError names the variable that had no value.
type UnboundVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnboundVariable, e.Name)
}

// Unwrap returns ErrUnboundVariable for errors.Is support.
func (e *UnboundVariableError) Unwrap() error {
	return ErrUnboundVariable
}

// CircularDependencyError reports a variable reached again while its own
// dependencies were being computed.
type CircularDependencyError struct {
	// Name is the variable that closed the cycle.
	Name string
	// Path is the chain of variables being computed, outermost first.
	Path []string
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%v: %s (via %s)", ErrCircularDependency, e.Name, strings.Join(slices.Concat(e.Path, []string{e.Name}), " -> "))
}

// Unwrap returns ErrCircularDependency for errors.Is support.
func (e *CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// UndefinedFunctionError reports a call of an unknown function.
type UndefinedFunctionError struct {
	// Name is the lowercased function name.
	Name string
	// Split is set when Name minus its first letter is a known function,
	// which usually means a missing `*`.
	Split string
	// Suggestions lists known names close to Name.
	Suggestions []string
}

// Error implements the error interface.
func (e *UndefinedFunctionError) Error() string {
	switch {
	case e.Split != "":
		return fmt.Sprintf("%v: %s; did you mean %s*%s(...)?", ErrUndefinedFunction, e.Name, e.Name[:1], e.Split)
	case len(e.Suggestions) > 0:
		return fmt.Sprintf("%v: %s; did you mean %s?", ErrUndefinedFunction, e.Name, strings.Join(e.Suggestions, ", "))
	default:
		return fmt.Sprintf("%v: %s", ErrUndefinedFunction, e.Name)
	}
}

// Unwrap returns ErrUndefinedFunction for errors.Is support.
func (e *UndefinedFunctionError) Unwrap() error {
	return ErrUndefinedFunction
}

// UndefinedOperatorError reports use of an operator with no definition.
type UndefinedOperatorError struct {
	Name string
}

// Error implements the error interface.
func (e *UndefinedOperatorError) Error() string {
	return fmt.Sprintf("operator %q is not defined", e.Name)
}

// Unwrap returns ErrUndefinedFunction for errors.Is support.
func (e *UndefinedOperatorError) Unwrap() error {
	return ErrUndefinedFunction
}

// NoMatchingOverloadError reports that every definition of a function
// rejected the arguments.
type NoMatchingOverloadError struct {
	// Name is the function or operator.
	Name string
	// Args lists the kinds of the evaluated arguments.
	Args []token.Kind
	// UnboundArg is set when an argument was a name with no value. That is
	// almost always the real cause.
	UnboundArg string
}

// Error implements the error interface.
func (e *NoMatchingOverloadError) Error() string {
	if e.UnboundArg != "" {
		return fmt.Sprintf("%v: %s", ErrUnboundVariable, e.UnboundArg)
	}
	kinds := make([]string, len(e.Args))
	for i, k := range e.Args {
		kinds[i] = string(k)
	}
	return fmt.Sprintf("%v: %s(%s)", ErrNoMatchingOverload, e.Name, strings.Join(kinds, ", "))
}

// Unwrap returns the unbound-variable sentinel when an argument was
// unbound, and ErrNoMatchingOverload otherwise.
func (e *NoMatchingOverloadError) Unwrap() []error {
	if e.UnboundArg != "" {
		return []error{ErrNoMatchingOverload, ErrUnboundVariable}
	}
	return []error{ErrNoMatchingOverload}
}

// TypeError is raised by a function body that received a value it cannot
// handle.
type TypeError struct {
	Func string
	Msg  string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%v in %s: %s", ErrType, e.Func, e.Msg)
}

// Unwrap returns ErrType for errors.Is support.
func (e *TypeError) Unwrap() error {
	return ErrType
}

// NewTypeError builds a TypeError with a formatted message.
func NewTypeError(fn, format string, args ...any) *TypeError {
	return &TypeError{Func: fn, Msg: fmt.Sprintf(format, args...)}
}

// RuntimeError is raised by a function body, for example an empty random
// choice or a switch with no matching case.
type RuntimeError struct {
	Func string
	Msg  string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Msg)
}

// Unwrap returns ErrRuntime for errors.Is support.
func (e *RuntimeError) Unwrap() error {
	return ErrRuntime
}

// NewRuntimeError builds a RuntimeError with a formatted message.
func NewRuntimeError(fn, format string, args ...any) *RuntimeError {
	return &RuntimeError{Func: fn, Msg: fmt.Sprintf(format, args...)}
}

// MaxDepthError is returned when evaluation nests deeper than allowed.
type MaxDepthError struct {
	Max int
}

// Error implements the error interface.
func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("%v (%d)", ErrMaxDepth, e.Max)
}

// Unwrap returns ErrMaxDepth for errors.Is support.
func (e *MaxDepthError) Unwrap() error {
	return ErrMaxDepth
}

// MaxIterationsError is returned when rule application at one node does
// not settle.
type MaxIterationsError struct {
	// Max is the configured iteration limit.
	Max int
	// Expr is the node being rewritten when the limit was hit.
	Expr string
}

// Error implements the error interface.
func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("%v (%d) simplifying %s", ErrMaxIterations, e.Max, e.Expr)
}

// Unwrap returns ErrMaxIterations for errors.Is support.
func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}

// UndefinedRulesetError names a ruleset that is not defined.
type UndefinedRulesetError struct {
	Name string
}

// Error implements the error interface.
func (e *UndefinedRulesetError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUndefinedRuleset, e.Name)
}

// Unwrap returns ErrUndefinedRuleset for errors.Is support.
func (e *UndefinedRulesetError) Unwrap() error {
	return ErrUndefinedRuleset
}

// PatternError reports a pattern that cannot be matched, such as a
// capture whose target is not a name.
type PatternError struct {
	Pattern string
	Msg     string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("%v %s: %s", ErrPattern, e.Pattern, e.Msg)
}

// Unwrap returns ErrPattern for errors.Is support.
func (e *PatternError) Unwrap() error {
	return ErrPattern
}
