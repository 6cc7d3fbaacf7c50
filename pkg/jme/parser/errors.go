package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for parsing.
var (
	// ErrNoLeftBracket indicates a `)` with no matching `(`.
	ErrNoLeftBracket = errors.New("no matching left bracket")

	// ErrNoLeftBracketInFunction indicates a `,` outside any bracket.
	ErrNoLeftBracketInFunction = errors.New("no left bracket in function")

	// ErrNoRightBracket indicates a `(` that is never closed.
	ErrNoRightBracket = errors.New("no matching right bracket")

	// ErrNoLeftSquareBracket indicates a `]` with no matching `[`.
	ErrNoLeftSquareBracket = errors.New("no matching left square bracket")

	// ErrNoRightSquareBracket indicates a `[` that is never closed.
	ErrNoRightSquareBracket = errors.New("no matching right square bracket")

	// ErrMissingOperator indicates more than one value was left after parsing.
	ErrMissingOperator = errors.New("expression has more than one value: missing operator")

	// ErrArityMismatch indicates an operator or function without enough operands.
	ErrArityMismatch = errors.New("not enough arguments")

	// ErrMismatchedBracket indicates a bracket closed by the wrong kind.
	ErrMismatchedBracket = errors.New("mismatched bracket")
)

// Error wraps a parse failure with the token it was raised at.
type Error struct {
	// Token is the rendered token being processed, if any.
	Token string
	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse: %v", e.Err)
	}
	return fmt.Sprintf("parse: %v at %q", e.Err, e.Token)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *Error) Unwrap() error {
	return e.Err
}

func errAt(err error, tok string) *Error {
	return &Error{Token: tok, Err: err}
}
