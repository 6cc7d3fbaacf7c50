/*
Package token defines the JME value model: the Token sum type, numbers,
expression trees and the operator tables.

# Tokens

Token is a closed interface. Its implementations are Number, String, Bool,
List, Set, Vector, Matrix, Range, Name, Function, Op and the tokenizer-only
Punc. Code that consumes tokens switches over the concrete types:

	switch t := tok.(type) {
	case token.Number:
	    ...
	case token.Name:
	    ...
	default:
	    return fmt.Errorf("unexpected %s", tok.Kind())
	}

# Numbers

A Number holds a Num, which is either Real or Complex. NewComplex collapses
a zero imaginary part to Real, so each value has a single representation
and NumEqual compares the two uniformly.

# Trees

Tree pairs a token with its children. Trees are never modified after they
are built; WithArgs and ReplaceArg return new nodes that share the
untouched children.

Render turns a tree back into JME text with only the brackets needed to
preserve its structure:

	token.Render(tree) // "2+3*x"
*/
package token
