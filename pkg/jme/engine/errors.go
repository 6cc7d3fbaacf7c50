package engine

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrNilContext is returned when an operation is called with a nil context.
var ErrNilContext = errors.New("context cannot be nil")

// PanicError captures a panic raised during a run, typically by a host
// function. It includes the stack trace for debugging.
type PanicError struct {
	// RunID is the run that panicked.
	RunID string
	// Op is the operation: evaluate, simplify or variables.
	Op string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s run %s panicked: %v", e.Op, e.RunID, e.Value)
}

// recoverRun turns a panic in the calling run into a *PanicError stored
// in *err. It must be deferred directly.
func recoverRun(runID, op string, err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{
			RunID: runID,
			Op:    op,
			Value: r,
			Stack: string(debug.Stack()),
		}
	}
}
