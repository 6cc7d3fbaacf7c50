package variables

import (
	"errors"
	"fmt"
)

// Sentinel errors for variable computation.
var (
	// ErrUndefinedVariable is returned when a definition refers to a name
	// that is neither defined in the set nor bound in the scope.
	ErrUndefinedVariable = errors.New("variable not defined")

	// ErrEmptyDefinition is returned when a variable's definition is blank.
	ErrEmptyDefinition = errors.New("empty variable definition")

	// ErrConditionNotSatisfied is returned by Generate when no run produced
	// values satisfying the condition.
	ErrConditionNotSatisfied = errors.New("condition not satisfied")
)

// UndefinedVariableError names a variable with no definition.
type UndefinedVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUndefinedVariable, e.Name)
}

// Unwrap returns ErrUndefinedVariable for errors.Is support.
func (e *UndefinedVariableError) Unwrap() error {
	return ErrUndefinedVariable
}

// DependencyError reports that a variable could not be computed because
// one of its dependencies failed.
type DependencyError struct {
	// Name is the variable being computed.
	Name string
	// Dependency is the variable that failed.
	Dependency string
	Err        error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("variable %s: computing dependency %s: %v", e.Name, e.Dependency, e.Err)
}

// Unwrap returns the dependency's error.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// EvaluationError reports a failure evaluating a variable's own
// definition.
type EvaluationError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("variable %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying evaluation error.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}
